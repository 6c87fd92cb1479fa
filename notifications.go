package main

import (
	"sync"
	"time"
)

/*
 * Structure of one UI notification
 */
type Notification struct {
	// Type of notification.
	// Currently possible values: "success", "danger"
	Type string `json:"type"`

	// Message text
	Message string `json:"message"`

	// Timestamp of the creation time
	Ts string `json:"ts"`
}

/*
 * Latest notifications ("toasts") of the searches.
 * Implements pdk.NotificationSink
 */
type Toasts struct {
	list  []*Notification
	limit int

	// Called for every new notification,
	// delivers it to the online clients
	onAdd func(*Notification)

	mx sync.Mutex
}

func newToasts(limit int, onAdd func(*Notification)) *Toasts {
	return &Toasts{
		list:  []*Notification{},
		limit: limit,
		onAdd: onAdd,
	}
}

func (t *Toasts) AddSuccess(message string) {
	t.add("success", message)
}

func (t *Toasts) AddDanger(message string) {
	t.add("danger", message)
}

/*
 * Add new notification, keep the last "limit" ones only
 */
func (t *Toasts) add(typ, message string) {
	n := &Notification{
		Type:    typ,
		Message: message,
		Ts:      time.Now().Format("2 Jan 2006 15:04:05"),
	}

	t.mx.Lock()
	t.list = append(t.list, n)

	if len(t.list) > t.limit {
		t.list = t.list[len(t.list)-t.limit:]
	}
	t.mx.Unlock()

	notificationsTotal.WithLabelValues(typ).Inc()

	log.Debug().
		Str("type", typ).
		Msg("Notification added: " + message)

	if t.onAdd != nil {
		t.onAdd(n)
	}
}

/*
 * Return a copy of the stored notifications, oldest first
 */
func (t *Toasts) List() []*Notification {
	t.mx.Lock()
	defer t.mx.Unlock()

	return append([]*Notification{}, t.list...)
}

/*
 * Remove all stored notifications
 */
func (t *Toasts) Clean() {
	t.mx.Lock()
	t.list = []*Notification{}
	t.mx.Unlock()
}
