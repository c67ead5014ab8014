package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

func (h *Handler) GetCutoffDate(w http.ResponseWriter, r *http.Request) {
	cutoff, err := h.repository.GetCutoffDate()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取锁定日期成功", map[string]any{
		"cutoffDate": cutoff,
	})
}

func (h *Handler) UpdateCutoffDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CutoffDate *string `json:"cutoffDate"` // 为 null 时表示清除锁定
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.CutoffDate != nil {
		if err := utils.ValidateDate(*req.CutoffDate); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	if err := h.repository.UpdateCutoffDate(req.CutoffDate); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if req.CutoffDate == nil {
		h.successResponse(w, r, "已清除锁定日期", nil)
		return
	}

	h.successResponse(w, r, "设置锁定日期成功", map[string]any{
		"cutoffDate": req.CutoffDate,
	})
}
