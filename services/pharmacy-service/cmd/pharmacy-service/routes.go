package main

import (
	"net/http"

	"github.com/md-rashed-zaman/pharmacare/libs/httpx"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/content"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/guard"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/handlers"
)

type routeDeps struct {
	booking  *handlers.BookingHandler
	admin    *handlers.AdminHandler
	accounts *handlers.AccountHandler
	site     *handlers.SiteHandler
	resolver guard.Resolver
}

// exact anchors a trailing-slash path so it does not match its subtree.
func exact(path string) string {
	return path + "{$}"
}

func registerRoutes(mux *http.ServeMux, d routeDeps) {
	// Data endpoints answer 401/403 JSON; dashboard pages redirect a
	// browser to the matching sign-in page.
	adminAPI := guard.RequireSuperuser(d.resolver, guard.DenyJSON)
	adminPage := guard.RequireSuperuser(d.resolver, guard.DenyRedirect("/admin-login/"))
	sitePage := guard.RequireSuperuser(d.resolver, guard.DenyRedirect("/login/"))

	protect := func(path string, m httpx.Middleware, h http.HandlerFunc) {
		mux.Handle(exact(path), httpx.Chain(h, m))
	}

	mux.HandleFunc(exact("/appointments/create/"), d.booking.Create)
	mux.HandleFunc(exact("/appointments/booked/"), d.booking.Booked)

	protect("/admin-dashboard/", adminPage, d.admin.Overview)
	protect("/admin-dashboard/reports/", adminPage, d.admin.ReportsPage)
	protect("/admin-dashboard/reports/data/", adminAPI, d.admin.ReportData)
	protect("/admin-dashboard/appointments/", adminAPI, d.admin.Appointments)
	protect("/admin-dashboard/user-history/", adminAPI, d.admin.UserHistory)
	protect("/admin-dashboard/activity-log/", adminAPI, d.admin.ActivityLog)
	protect("/dashboard/", sitePage, d.admin.Dashboard)

	mux.HandleFunc(exact("/signup/"), d.accounts.Signup)
	mux.HandleFunc(exact("/login/"), d.accounts.Login)
	mux.HandleFunc(exact("/logout/"), d.accounts.Logout)
	mux.HandleFunc(exact("/admin-login/"), d.accounts.AdminLogin)

	mux.HandleFunc(exact("/"), d.site.Index)
	mux.HandleFunc(exact("/branches/"), d.site.Branches)
	mux.HandleFunc(exact("/branches/{id}/"), d.site.Branch)
	mux.HandleFunc(exact("/health-a-z/"), d.site.HealthAZ)
	mux.HandleFunc(exact("/nhs-conditions/{slug}/"), d.site.Condition)
	for _, p := range content.Pages() {
		mux.HandleFunc(exact(p.Path), d.site.Page(p))
	}
}
