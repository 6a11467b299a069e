package notification

import (
	"context"
	"log"
	"sync"
)

// Operator-facing messages
const (
	MsgApproved        = "Đơn hàng đã được phê duyệt"
	MsgApproveFailed   = "Không thể phê duyệt đơn hàng"
	MsgCancelled       = "Đơn hàng đã bị hủy"
	MsgCancelFailed    = "Không thể hủy đơn hàng"
	MsgStatusUpdated   = "Cập nhật trạng thái đơn hàng thành công"
	MsgStatusFailed    = "Không thể cập nhật trạng thái đơn hàng"
	MsgRestockSent     = "Gửi yêu cầu nhập hàng thành công"
	MsgRestockFailed   = "Không thể gửi yêu cầu nhập hàng"
	MsgLoadOrderFailed = "Không thể tải thông tin đơn hàng"
)

// Notice is the (ok, message) pair shown to the operator
type Notice struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	OrderID string `json:"orderId,omitempty"`
}

// Notifier delivers notices to the operator surface
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

func noticeFor(orderID string, err error, okMsg, failMsg string) Notice {
	if err != nil {
		return Notice{OK: false, Message: failMsg, OrderID: orderID}
	}
	return Notice{OK: true, Message: okMsg, OrderID: orderID}
}

func ApprovalNotice(orderID string, err error) Notice {
	return noticeFor(orderID, err, MsgApproved, MsgApproveFailed)
}

func CancellationNotice(orderID string, err error) Notice {
	return noticeFor(orderID, err, MsgCancelled, MsgCancelFailed)
}

func StatusNotice(orderID string, err error) Notice {
	return noticeFor(orderID, err, MsgStatusUpdated, MsgStatusFailed)
}

func RestockNotice(err error) Notice {
	return noticeFor("", err, MsgRestockSent, MsgRestockFailed)
}

// LogNotifier writes notices to the process log
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notice) {
	if n.OK {
		log.Printf("[Notice] %s (order %s)", n.Message, n.OrderID)
		return
	}
	log.Printf("[Notice] FAILED: %s (order %s)", n.Message, n.OrderID)
}

// Recorder keeps notices in memory
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(ctx context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of the recorded notices
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
