package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/timeutil"
)

func (h *Handler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string              `json:"name" validate:"required"`
		Slots []domain.PresetSlot `json:"slots" validate:"required,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	for i, slot := range req.Slots {
		if _, err := timeutil.Duration(slot.StartTime, slot.EndTime); err != nil {
			h.badRequest(w, r, fmt.Errorf("第 %d 个时间段非法: %w", i+1, err))
			return
		}
	}

	preset := &domain.AvailabilityPreset{
		Name:  req.Name,
		Slots: req.Slots,
	}

	if err := h.repository.CreatePreset(preset); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建可用时间模板成功", preset)
}

func (h *Handler) GetAllPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := h.repository.GetAllPresets()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取可用时间模板列表成功", presets)
}

func (h *Handler) GetPreset(w http.ResponseWriter, r *http.Request) {
	preset := r.Context().Value(PresetCtx).(*domain.AvailabilityPreset)
	h.successResponse(w, r, "获取可用时间模板成功", preset)
}

func (h *Handler) UpdatePreset(w http.ResponseWriter, r *http.Request) {
	preset := r.Context().Value(PresetCtx).(*domain.AvailabilityPreset)

	var req struct {
		Name string `json:"name" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	preset.Name = req.Name

	if err := h.repository.UpdatePreset(preset); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新模板失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新可用时间模板成功", preset)
}

func (h *Handler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	preset := r.Context().Value(PresetCtx).(*domain.AvailabilityPreset)

	if err := h.repository.DeletePreset(preset.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "可用时间模板不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除可用时间模板成功", nil)
}
