// Package events provides typed, synchronous hook points owned by the host
// application.
//
// Dispatcher[T] is an action hook: every subscriber is called in order for
// each published value. Filter[T] is a filter hook: callbacks transform a
// value in ascending priority order and the last result wins.
//
// Both types are plain values; the host creates them, passes them to the
// components that publish or apply them, and registers callbacks during
// startup. There are no global hook tables.
//
//	created := events.NewDispatcher[login.UserCreated]()
//	created.Subscribe(func(ctx context.Context, e login.UserCreated) error {
//		return mailer.Notify(ctx, e.User)
//	})
//
//	scopes := events.NewFilter[[]string]()
//	scopes.Add(10, func(ctx context.Context, s []string) []string {
//		return append(s, "https://www.googleapis.com/auth/calendar.readonly")
//	})
package events
