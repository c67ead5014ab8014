package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/repository"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	notifyChannel *amqp.Channel
	redisClient   *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, notifyCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		notifyChannel: notifyCh,
		redisClient:   rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Get("/metrics", h.GetMyMetrics)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateEmployee)
			r.Get("/", h.GetAllEmployeeInfo) // 所有员工都有权限查看同事名单
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employeeInfo)
				r.Get("/", h.GetEmployeeInfo)
				r.With(h.preventOperateInitialManager).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdateEmployee)
				r.With(h.preventOperateInitialManager).With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeleteEmployee)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/password", h.UpdateEmployeePassword)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Get("/availability", h.GetEmployeeAvailability)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Get("/metrics", h.GetEmployeeMetrics)
			})
		})

		r.Route("/my-availability", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.preventInactiveEmployee)
			r.Get("/", h.GetMyAvailability)
			r.Put("/", h.ReplaceMyAvailability)
			r.Post("/apply-preset", h.ApplyPresetToMyAvailability)
			r.Post("/{date}/full-day-available", h.SetMyDayAvailable)
			r.Post("/{date}/full-day-unavailable", h.SetMyDayUnavailable)
			r.Delete("/{date}", h.DeleteMyAvailability)
		})

		r.Route("/settings/cutoff-date", func(r chi.Router) {
			r.Get("/", h.GetCutoffDate)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Put("/", h.UpdateCutoffDate)
		})

		r.Route("/presets", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreatePreset)
			r.Get("/", h.GetAllPresets)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.preset)
				r.Get("/", h.GetPreset)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/", h.UpdatePreset)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Delete("/", h.DeletePreset)
			})
		})

		r.Route("/rosters", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/", h.CreateRoster)
			r.Get("/", h.GetRosters)
			r.Route("/{date}", func(r chi.Router) {
				r.Use(h.roster)
				r.Get("/", h.GetRoster)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/publish", h.PublishRoster)
				r.Route("/shifts/{shiftID}", func(r chi.Router) {
					r.Use(h.RequiredRole([]domain.Role{domain.RoleManager}))
					r.Patch("/", h.UpdateShift)
					r.Patch("/assign", h.AssignShift)
					r.Delete("/", h.RemoveShift)
				})
			})
		})

		r.Route("/bids", func(r chi.Router) {
			r.With(h.myInfo).With(h.preventInactiveEmployee).Post("/", h.CreateBid)
			r.With(h.myInfo).Get("/my", h.GetMyBids)
			// 只有排班经理能查看所有竞班申请，防止泄露他人信息
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Get("/", h.GetBidRecords)
			r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/bulk-status", h.BulkUpdateBidStatus)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.bid)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/approve", h.ApproveBid)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/reject", h.RejectBid)
				r.With(h.myInfo).Post("/confirm", h.ConfirmBid)
			})
		})
	})
}
