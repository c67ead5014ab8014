package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

func (h *Handler) GetMyAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if err := utils.ValidateDateRange(startDate, endDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	days, err := h.repository.GetAvailabilityByEmployeeAndRange(myInfo.ID, startDate, endDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取可用时间成功", days)
}

// replaceAvailability 把时间段批量写入 [startDate, endDate] 内的每一天
// 写入是全有或全无的：只要有一天被锁定，整个区间都不会被修改
func (h *Handler) replaceAvailability(w http.ResponseWriter, r *http.Request, employeeID int64, startDate string, endDate string, slots []domain.TimeSlot, notes string) {
	dates, err := utils.DatesInRange(startDate, endDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	days, err := h.repository.ReplaceAvailabilityRange(employeeID, dates, slots, notes)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDateLocked):
			h.errorResponse(w, r, "区间内存在已锁定的日期，整批修改已取消")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "设置可用时间成功", days)
}

func (h *Handler) ReplaceMyAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	var req struct {
		StartDate string            `json:"startDate" validate:"required"`
		EndDate   string            `json:"endDate" validate:"required"`
		TimeSlots []domain.TimeSlot `json:"timeSlots" validate:"required"`
		Notes     string            `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := utils.ValidateTimeSlots(req.TimeSlots); err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.replaceAvailability(w, r, myInfo.ID, req.StartDate, req.EndDate, req.TimeSlots, req.Notes)
}

func (h *Handler) ApplyPresetToMyAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	var req struct {
		PresetID  int64  `json:"presetID" validate:"required"`
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
		Notes     string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	preset, err := h.repository.GetPresetByID(req.PresetID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPresetNotFound):
			h.errorResponse(w, r, "可用时间模板不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	slots := preset.ExpandSlots()
	if len(slots) == 0 {
		h.errorResponse(w, r, "该模板没有任何时间段")
		return
	}

	h.replaceAvailability(w, r, myInfo.ID, req.StartDate, req.EndDate, slots, req.Notes)
}

// SetMyDayAvailable 一键把某一天标成标准工作时段内空闲
func (h *Handler) SetMyDayAvailable(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	date := chi.URLParam(r, "date")
	if err := utils.ValidateDate(date); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slots := []domain.TimeSlot{
		{StartTime: "09:00", EndTime: "17:00", Status: domain.StatusAvailable},
	}

	h.replaceAvailability(w, r, myInfo.ID, date, date, slots, "")
}

// SetMyDayUnavailable 一键把某一天整天标成不空闲
func (h *Handler) SetMyDayUnavailable(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	date := chi.URLParam(r, "date")
	if err := utils.ValidateDate(date); err != nil {
		h.badRequest(w, r, err)
		return
	}

	slots := []domain.TimeSlot{
		{StartTime: "00:00", EndTime: "23:59", Status: domain.StatusUnavailable},
	}

	h.replaceAvailability(w, r, myInfo.ID, date, date, slots, "")
}

func (h *Handler) DeleteMyAvailability(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	date := chi.URLParam(r, "date")
	if err := utils.ValidateDate(date); err != nil {
		h.badRequest(w, r, err)
		return
	}

	deleted, err := h.repository.DeleteAvailability(myInfo.ID, date)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDateLocked):
			h.errorResponse(w, r, "该日期已被锁定，禁止修改")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if !deleted {
		h.errorResponse(w, r, "该日期没有设置过可用时间")
		return
	}

	h.successResponse(w, r, "删除可用时间成功", nil)
}
