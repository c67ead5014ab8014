package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/query"
)

func (h *Handler) CreateBid(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	var req struct {
		ShiftID int64  `json:"shiftID" validate:"required"`
		Notes   string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bid := &domain.Bid{
		EmployeeID: myInfo.ID,
		ShiftID:    req.ShiftID,
		Notes:      req.Notes,
	}

	if err := h.repository.CreateBid(bid); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, "班次不存在")
		case errors.Is(err, domain.ErrShiftNotOpen):
			h.errorResponse(w, r, "该班次已有人值守")
		case errors.Is(err, domain.ErrDuplicateBid):
			h.errorResponse(w, r, "已对该班次提交过竞班申请")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "提交竞班申请成功", bid)
}

func (h *Handler) GetMyBids(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)

	bids, err := h.repository.GetBidsByEmployeeID(myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取竞班申请列表成功", bids)
}

func parseBidFilters(r *http.Request) query.Filters {
	q := r.URL.Query()

	f := query.Filters{
		StartDate:     q.Get("startDate"),
		EndDate:       q.Get("endDate"),
		Department:    q.Get("department"),
		SubDepartment: q.Get("subDepartment"),
		ShiftRole:     q.Get("shiftRole"),
		Search:        q.Get("search"),
	}

	for _, status := range q["status"] {
		f.Statuses = append(f.Statuses, domain.BidStatus(status))
	}

	if raw := q.Get("remunerationLevel"); raw != "" {
		if level, err := strconv.ParseInt(raw, 10, 32); err == nil {
			level32 := int32(level)
			f.RemunerationLevel = &level32
		}
	}
	if raw := q.Get("minNetHours"); raw != "" {
		if hours, err := strconv.ParseFloat(raw, 64); err == nil {
			f.MinNetHours = &hours
		}
	}
	if raw := q.Get("maxNetHours"); raw != "" {
		if hours, err := strconv.ParseFloat(raw, 64); err == nil {
			f.MaxNetHours = &hours
		}
	}
	if raw := q.Get("published"); raw != "" {
		if published, err := strconv.ParseBool(raw); err == nil {
			f.Published = &published
		}
	}
	if raw := q.Get("assigned"); raw != "" {
		if assigned, err := strconv.ParseBool(raw); err == nil {
			f.Assigned = &assigned
		}
	}

	return f
}

// GetBidRecords 是排班经理的竞班工作台查询入口
// 过滤、排序和按日期分组都在内存中完成，同样的参数总是返回同样的结果
func (h *Handler) GetBidRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.repository.GetAllBidRecords()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	q := r.URL.Query()

	records = query.Filter(records, parseBidFilters(r))

	sortKey := query.SortKey(q.Get("sortBy"))
	desc := q.Get("order") == "desc"
	records = query.Sort(records, sortKey, desc)

	if groupByDate, _ := strconv.ParseBool(q.Get("groupByDate")); groupByDate {
		dates, groups := query.GroupByDate(records)
		h.successResponse(w, r, "获取竞班申请列表成功", map[string]any{
			"dates":  dates,
			"groups": groups,
		})
		return
	}

	h.successResponse(w, r, "获取竞班申请列表成功", records)
}

// notifyBidStatusChanged 把竞班申请的状态变化通知给申请人
func (h *Handler) notifyBidStatusChanged(r *http.Request, bid *domain.Bid, reason string) {
	employee, err := h.repository.GetEmployeeByID(bid.EmployeeID)
	if err != nil {
		h.logInternalServerError(r, err)
		return
	}

	h.notify(domain.NotificationMessage{
		Type: "bid_status_changed",
		To:   employee.Email,
		Data: domain.BidStatusChangedData{
			FullName:   employee.FullName,
			EmployeeID: employee.ID,
			ShiftID:    bid.ShiftID,
			NewStatus:  bid.Status,
			Reason:     reason,
		},
	})
}

func (h *Handler) ApproveBid(w http.ResponseWriter, r *http.Request) {
	bid := r.Context().Value(BidCtx).(*domain.Bid)

	if err := h.repository.ApproveBid(bid); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, "申请对应的班次已不存在")
		case errors.Is(err, domain.ErrAlreadyResolved):
			h.errorResponse(w, r, "该班次已被分配或申请已被处理")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyBidStatusChanged(r, bid, "")

	h.successResponse(w, r, "批准竞班申请成功", bid)
}

func (h *Handler) RejectBid(w http.ResponseWriter, r *http.Request) {
	bid := r.Context().Value(BidCtx).(*domain.Bid)

	var req struct {
		Reason string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateBidStatus(bid, domain.BidRejected); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyResolved):
			h.errorResponse(w, r, "该申请已被处理")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyBidStatusChanged(r, bid, req.Reason)

	h.successResponse(w, r, "拒绝竞班申请成功", bid)
}

func (h *Handler) ConfirmBid(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Employee)
	bid := r.Context().Value(BidCtx).(*domain.Bid)

	if bid.EmployeeID != myInfo.ID {
		h.errorResponse(w, r, "只能确认自己的竞班申请")
		return
	}

	if err := h.repository.UpdateBidStatus(bid, domain.BidConfirmed); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyResolved):
			h.errorResponse(w, r, "该申请还未被批准或已被确认")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "确认竞班申请成功", bid)
}

type BulkBidResult struct {
	ID      int64  `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BulkUpdateBidStatus 批量批准或拒绝竞班申请
// 每条申请独立处理，单条失败不影响其它条目，结果以每条申请的实际处理情况为准
func (h *Handler) BulkUpdateBidStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs    []int64 `json:"ids" validate:"required,min=1"`
		Action string  `json:"action" validate:"required,oneof=approve reject"`
		Reason string  `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	results := make([]BulkBidResult, 0, len(req.IDs))

	for _, id := range req.IDs {
		bid, err := h.repository.GetBidByID(id)
		if err != nil {
			message := "服务器内部错误"
			if errors.Is(err, sql.ErrNoRows) {
				message = "竞班申请不存在"
			} else {
				h.logInternalServerError(r, err)
			}
			results = append(results, BulkBidResult{ID: id, Success: false, Message: message})
			continue
		}

		if req.Action == "approve" {
			err = h.repository.ApproveBid(bid)
		} else {
			err = h.repository.UpdateBidStatus(bid, domain.BidRejected)
		}

		if err != nil {
			message := "服务器内部错误"
			switch {
			case errors.Is(err, domain.ErrNotFound):
				message = "申请对应的班次已不存在"
			case errors.Is(err, domain.ErrAlreadyResolved):
				message = "该班次已被分配或申请已被处理"
			default:
				h.logInternalServerError(r, err)
			}
			results = append(results, BulkBidResult{ID: id, Success: false, Message: message})
			continue
		}

		h.notifyBidStatusChanged(r, bid, req.Reason)
		results = append(results, BulkBidResult{ID: id, Success: true, Message: "处理成功"})
	}

	h.successResponse(w, r, "批量处理完成", results)
}
