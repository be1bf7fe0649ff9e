// Package binder fills request structs from query strings and form bodies.
//
// Fields are matched by struct tag (`query:"name"`, `form:"name"`); a tag of "-"
// skips the field and untagged fields use their lower-cased name. Supported
// field kinds are string, bool, the integer kinds and pointers or slices of those.
//
//	type CallbackRequest struct {
//		Code  string `query:"code"`
//		State string `query:"state"`
//	}
//
//	var req CallbackRequest
//	if err := binder.Query()(r, &req); err != nil {
//		// handle
//	}
//
// Form returns ErrNotApplicable for requests without a form body so a handler can
// chain Query and Form and let each skip what does not apply.
package binder
