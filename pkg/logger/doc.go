// Package logger wraps log/slog with a small functional-options factory and
// attribute helpers that keep key names consistent across the login packages.
//
// Usage:
//
//	log := logger.New(
//		logger.WithConfig(cfg),
//		logger.WithAttr(slog.String("service", "googlelogin")),
//	)
//	log.Error("token exchange failed", logger.Error(err), logger.Component("google"))
//
// Attribute helpers return an empty slog.Attr for nil input so they can be
// passed unconditionally. Email only records the domain of an address.
package logger
