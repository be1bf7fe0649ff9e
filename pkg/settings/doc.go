// Package settings resolves the Google login configuration.
//
// Every field can come from three places, in order of precedence: a
// deployment constant read from the environment, a value stored through an
// OptionStore, or the built-in default. A field fixed by a constant is
// locked: Fields reports it as such and Save refuses to overwrite it.
//
//	constants, err := settings.LoadConstants()
//	resolver := settings.NewResolver(settings.NewYAMLStore("options.yaml"), constants)
//
//	s, err := resolver.Load(ctx)
//	if s.OneTapLogin {
//		// render One Tap markup
//	}
//
// Settings are resolved once per request; stores are read-mostly and no
// caching is done here.
package settings
