package port

import "context"

// ViewEvent - событие для браузера: тип и готовая view-model.
type ViewEvent struct {
	Type string
	Data interface{}
}

// NotifierPort рассылает события всем открытым вкладкам сессии.
type NotifierPort interface {
	Notify(ctx context.Context, sessionID string, event ViewEvent)
}
