package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// Messages returned to the back-office pages. They are shown to site staff
// verbatim, so they stay in the staff's language.
const (
	msgAddOK          = "添加成功"
	msgAddFailed      = "添加失败"
	msgEditOK         = "修改成功"
	msgEditFailed     = "修改失败"
	msgRemoveOK       = "删除成功"
	msgRemoveFailed   = "删除失败"
	msgRemoveNoID     = "请选择要删除的内容"
	msgItemNotFound   = "该项目不存在"
	msgExportNoConfig = "服务器配置错误，无法进行导出操作。"
	msgExportDates    = "导出日期无效"
	msgExportFailed   = "导出失败"
)

// envelope is the {success, msg} body answered by every save-* endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

// respondEnvelope writes an envelope. Write failures are reported with
// success=false and HTTP 200 so the page can show msg; only an oversized
// body changes the status.
func respondEnvelope(w http.ResponseWriter, r *http.Request, err error, ok, failed string) {
	if err == nil {
		render.JSON(w, r, envelope{Success: true, Msg: ok})
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		render.Status(r, http.StatusRequestEntityTooLarge)
	}
	render.JSON(w, r, envelope{Success: false, Msg: failed})
}

// respondText writes a plain-text body with the given status.
func respondText(w http.ResponseWriter, r *http.Request, status int, text string) {
	render.Status(r, status)
	render.PlainText(w, r, text)
}
