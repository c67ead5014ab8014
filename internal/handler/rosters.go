package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

func (h *Handler) CreateRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date   string         `json:"date" validate:"required"`
		Groups []domain.Group `json:"groups" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	roster := &domain.Roster{
		Date:   req.Date,
		Groups: req.Groups,
	}

	if err := utils.ValidateRoster(roster); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateRoster(roster); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch {
			case pgErr.ConstraintName == "rosters_date_key":
				h.badRequest(w, r, errors.New("该日期已有班表"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建班表成功", roster)
}

func (h *Handler) GetRosters(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if err := utils.ValidateDateRange(startDate, endDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rosters, err := h.repository.GetRostersByDateRange(startDate, endDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 员工只能看到已发布的班表
	role := domain.Role(r.Context().Value(RoleCtxKey).(string))
	if role != domain.RoleManager {
		published := make([]*domain.Roster, 0, len(rosters))
		for _, ro := range rosters {
			if ro.Published {
				published = append(published, ro)
			}
		}
		rosters = published
	}

	h.successResponse(w, r, "获取班表列表成功", rosters)
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)

	role := domain.Role(r.Context().Value(RoleCtxKey).(string))
	if !roster.Published && role != domain.RoleManager {
		h.errorResponse(w, r, "班表尚未发布")
		return
	}

	h.successResponse(w, r, "获取班表成功", roster)
}

func (h *Handler) PublishRoster(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)

	if roster.Published {
		h.errorResponse(w, r, "班表已经发布过了")
		return
	}

	if err := h.repository.PublishRoster(roster); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "发布班表失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 发布后通知所有被排进班表的员工
	for _, group := range roster.Groups {
		for _, subGroup := range group.SubGroups {
			for _, shift := range subGroup.Shifts {
				if shift.EmployeeID == nil {
					continue
				}

				employee, err := h.repository.GetEmployeeByID(*shift.EmployeeID)
				if err != nil {
					h.logInternalServerError(r, err)
					continue
				}

				h.notify(domain.NotificationMessage{
					Type: "shift_assigned",
					To:   employee.Email,
					Data: domain.ShiftAssignedData{
						FullName:   employee.FullName,
						EmployeeID: employee.ID,
						ShiftID:    shift.ID,
						Date:       roster.Date,
						StartTime:  shift.StartTime,
						EndTime:    shift.EndTime,
					},
				})
			}
		}
	}

	h.successResponse(w, r, "发布班表成功", roster)
}

func (h *Handler) shiftIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	shiftIDParam := chi.URLParam(r, "shiftID")
	shiftID, err := strconv.ParseInt(shiftIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "班次ID无效")
		return 0, false
	}
	return shiftID, true
}

func (h *Handler) AssignShift(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)

	shiftID, ok := h.shiftIDFromURL(w, r)
	if !ok {
		return
	}

	var req struct {
		EmployeeID *int64 `json:"employeeID"` // 为 null 时表示把班次改回无人值守
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var employee *domain.Employee
	if req.EmployeeID != nil {
		var err error
		employee, err = h.repository.GetEmployeeByID(*req.EmployeeID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "员工不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		if !employee.IsActive {
			h.errorResponse(w, r, "该员工已离职，不能分配班次")
			return
		}
	}

	shift, err := h.repository.AssignShift(roster.ID, shiftID, req.EmployeeID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该班表下没有这个班次")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 班表已发布时员工会立即看到变化，需要通知到人
	if employee != nil && roster.Published {
		h.notify(domain.NotificationMessage{
			Type: "shift_assigned",
			To:   employee.Email,
			Data: domain.ShiftAssignedData{
				FullName:   employee.FullName,
				EmployeeID: employee.ID,
				ShiftID:    shift.ID,
				Date:       roster.Date,
				StartTime:  shift.StartTime,
				EndTime:    shift.EndTime,
			},
		})
	}

	h.successResponse(w, r, "分配班次成功", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)

	shiftID, ok := h.shiftIDFromURL(w, r)
	if !ok {
		return
	}

	var req struct {
		Role              *string `json:"role"`
		StartTime         *string `json:"startTime"`
		EndTime           *string `json:"endTime"`
		BreakDuration     *string `json:"breakDuration"`
		RemunerationLevel *int32  `json:"remunerationLevel"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift, err := h.repository.GetShiftInRoster(roster.ID, shiftID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该班表下没有这个班次")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if req.Role != nil {
		shift.Role = *req.Role
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.BreakDuration != nil {
		shift.BreakDuration = *req.BreakDuration
	}
	if req.RemunerationLevel != nil {
		shift.RemunerationLevel = *req.RemunerationLevel
	}

	if err := utils.ValidateShift(shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateShift(roster.ID, shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新班次失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新班次成功", shift)
}

func (h *Handler) RemoveShift(w http.ResponseWriter, r *http.Request) {
	roster := r.Context().Value(RosterCtx).(*domain.Roster)

	shiftID, ok := h.shiftIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.repository.RemoveShift(roster.ID, shiftID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "该班表下没有这个班次")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除班次成功", nil)
}
