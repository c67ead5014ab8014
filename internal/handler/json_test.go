package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	h, err := NewHandler(&config.Config{}, nil, nil, nil)
	if err != nil {
		t.Fatalf("无法创建 handler: %v", err)
	}
	return h
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应体不是合法的 JSON: %v", err)
	}
	return resp
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"张伟","bogus":1}`))
	var dst struct {
		Name string `json:"name"`
	}
	if err := h.readJSON(req, &dst); err == nil {
		t.Fatalf("含未知字段的请求体应被拒绝")
	}
}

func TestReadJSONValidBody(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"张伟"}`))
	var dst struct {
		Name string `json:"name"`
	}
	if err := h.readJSON(req, &dst); err != nil {
		t.Fatalf("合法请求体解析失败: %v", err)
	}
	if dst.Name != "张伟" {
		t.Fatalf("name = %s，预期 张伟", dst.Name)
	}
}

func TestBadRequestTranslatesAllValidationErrors(t *testing.T) {
	h := newTestHandler(t)

	var req struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required"`
	}
	err := h.validate.Struct(req)
	if err == nil {
		t.Fatalf("预期校验失败")
	}

	rec := httptest.NewRecorder()
	h.badRequest(rec, httptest.NewRequest(http.MethodPost, "/", nil), err)

	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Fatalf("校验失败的响应 success 应为 false")
	}
	// 两个字段的错误信息都要返回，用分号连接
	if !strings.Contains(resp.Message, "；") {
		t.Fatalf("应包含所有校验错误，实际为: %s", resp.Message)
	}
}

func TestInternalServerErrorStoreUnavailable(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	err := fmt.Errorf("写入失败: %w", domain.ErrStoreUnavailable)
	h.internalServerError(rec, httptest.NewRequest(http.MethodPost, "/", nil), err)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("存储不可用应返回 503，实际为 %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || resp.Message != domain.ErrStoreUnavailable.Error() {
		t.Fatalf("响应不符合预期: %+v", resp)
	}
}

func TestInternalServerErrorGeneric(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.internalServerError(rec, httptest.NewRequest(http.MethodPost, "/", nil), fmt.Errorf("磁盘写入失败"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("普通内部错误应返回 500，实际为 %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || resp.Message != "服务器内部错误" {
		t.Fatalf("响应不符合预期: %+v", resp)
	}
}

func TestSuccessResponseEnvelope(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.successResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), "操作成功", map[string]any{"id": 1})

	if rec.Code != http.StatusOK {
		t.Fatalf("成功响应应返回 200，实际为 %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("Content-Type = %s，预期 application/json", got)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success || resp.Message != "操作成功" || resp.Data == nil {
		t.Fatalf("响应不符合预期: %+v", resp)
	}
}
