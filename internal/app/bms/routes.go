package bms

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	agreementlistall "github.com/magabrotheeeer/bms-server/internal/http/handlers/agreement/listall"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/agreement/listown"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/agreement/status"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/agreement/submit"
	announcementcreate "github.com/magabrotheeeer/bms-server/internal/http/handlers/announcement/create"
	announcementlist "github.com/magabrotheeeer/bms-server/internal/http/handlers/announcement/list"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/apartment/count"
	apartmentlist "github.com/magabrotheeeer/bms-server/internal/http/handlers/apartment/list"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/apartment/stats"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/auth/token"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/coupon/availability"
	couponcreate "github.com/magabrotheeeer/bms-server/internal/http/handlers/coupon/create"
	couponlistall "github.com/magabrotheeeer/bms-server/internal/http/handlers/coupon/listall"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/coupon/listavailable"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/coupon/validate"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/health"
	paymentcreate "github.com/magabrotheeeer/bms-server/internal/http/handlers/payment/create"
	paymentlist "github.com/magabrotheeeer/bms-server/internal/http/handlers/payment/list"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/user/members"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/user/register"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/user/reset"
	"github.com/magabrotheeeer/bms-server/internal/http/handlers/user/role"
	"github.com/magabrotheeeer/bms-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/bms-server/internal/lib/cookie"
	"github.com/magabrotheeeer/bms-server/internal/lib/jwt"
	"github.com/magabrotheeeer/bms-server/internal/metrics"
	"github.com/magabrotheeeer/bms-server/internal/services/agreement"
	"github.com/magabrotheeeer/bms-server/internal/services/announcement"
	"github.com/magabrotheeeer/bms-server/internal/services/apartment"
	"github.com/magabrotheeeer/bms-server/internal/services/coupon"
	"github.com/magabrotheeeer/bms-server/internal/services/payment"
	"github.com/magabrotheeeer/bms-server/internal/services/user"
)

// Лимиты для маршрутов, которые можно перебирать.
const (
	tokenRateLimit   = rate.Limit(5)
	tokenRateBurst   = 10
	couponRateLimit  = rate.Limit(2)
	couponRateBurst  = 5
	corsPreflightTTL = 10 * time.Minute
)

// Deps зависимости обработчиков.
type Deps struct {
	Logger         *slog.Logger
	Tokens         *jwt.MakerImpl
	Cookies        cookie.Options
	AllowedOrigins []string
	Users          middlewarectx.UserProvider
	DB             health.Pinger

	UserService         *user.Service
	ApartmentService    *apartment.Service
	AgreementService    *agreement.Service
	CouponService       *coupon.Service
	AnnouncementService *announcement.Service
	PaymentService      *payment.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	log := d.Logger

	// Глобальные middleware. URLFormat не подключается: он отрезает ".com" у email в пути.
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		metrics.InstrumentHandler,
		cors.New(cors.Options{
			AllowedOrigins:   d.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           int(corsPreflightTTL.Seconds()),
		}).Handler,
	)

	authenticate := middlewarectx.Authenticate(d.Tokens, log)
	requireAdmin := middlewarectx.RequireAdmin(d.Users, log)

	// Открытые конечные точки
	r.Get("/", health.Root)
	r.Get("/health", health.New(log, d.DB).ServeHTTP)
	r.With(middlewarectx.RateLimitMiddleware(log, tokenRateLimit, tokenRateBurst)).
		Post("/jwt", token.New(log, d.Tokens, d.Cookies).ServeHTTP)
	r.Post("/logout", logout.New(log, d.Cookies).ServeHTTP)
	r.Post("/users", register.New(log, d.UserService).ServeHTTP)
	r.Get("/apartments", apartmentlist.New(log, d.ApartmentService).ServeHTTP)
	r.Get("/apartmentsCount", count.New(log, d.ApartmentService).ServeHTTP)
	r.Get("/coupons", listavailable.New(log, d.CouponService).ServeHTTP)

	// Любой аутентифицированный пользователь
	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.With(middlewarectx.RequireSelf(middlewarectx.FromURLParam("email"), log)).
			Get("/user/role/{email}", role.New(log, d.UserService).ServeHTTP)
		r.With(middlewarectx.RequireSelf(middlewarectx.FromURLParam("email"), log)).
			Get("/agreements/{email}", listown.New(log, d.AgreementService).ServeHTTP)
		r.With(middlewarectx.RequireSelf(middlewarectx.FromQuery("email"), log)).
			Get("/payments", paymentlist.New(log, d.PaymentService).ServeHTTP)

		r.Post("/agreements", submit.New(log, d.AgreementService).ServeHTTP)
		r.Post("/payments", paymentcreate.New(log, d.PaymentService).ServeHTTP)
		r.Get("/announcements", announcementlist.New(log, d.AnnouncementService).ServeHTTP)
		r.With(middlewarectx.RateLimitMiddleware(log, couponRateLimit, couponRateBurst)).
			Post("/coupons/validate", validate.New(log, d.CouponService).ServeHTTP)
	})

	// Только администратор
	r.Group(func(r chi.Router) {
		r.Use(authenticate, requireAdmin)

		r.Patch("/users/{id}", reset.New(log, d.AgreementService).ServeHTTP)
		r.Get("/members", members.New(log, d.UserService).ServeHTTP)
		r.Get("/admin-stats", stats.New(log, d.ApartmentService).ServeHTTP)
		r.Get("/agreements", agreementlistall.New(log, d.AgreementService).ServeHTTP)
		r.Put("/agreement/status/{id}", status.New(log, d.AgreementService).ServeHTTP)
		r.Get("/admin/coupons", couponlistall.New(log, d.CouponService).ServeHTTP)
		r.Post("/coupons", couponcreate.New(log, d.CouponService).ServeHTTP)
		r.Put("/coupons/{id}", availability.New(log, d.CouponService).ServeHTTP)
		r.Post("/announcements", announcementcreate.New(log, d.AnnouncementService).ServeHTTP)
	})

	r.Handle("/metrics", metrics.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
