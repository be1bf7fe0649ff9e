// Package jwt verifies Google-issued ID tokens, as posted by the One Tap
// sign-in widget.
//
// Verification walks a fixed sequence:
//
//	token -> split into header.payload.signature   (ErrMalformedToken)
//	      -> decode header for kid and alg          (ErrMissingKeyInfo)
//	      -> resolve public key, check signature    (ErrInvalidSignature)
//	      -> payload becomes the verified Claims
//
// Public keys come from a CertSource, which reads a KeyStore first and on a
// miss fetches Google's certificate endpoint, caching every returned key for
// the max-age advertised in Cache-Control (DefaultCertTTL otherwise). Two
// KeyStore implementations ship with the package: MemoryStore for a single
// process and RedisStore for a fleet.
//
// Algorithms are looked up in SupportedAlgorithms; anything else is verified
// with DefaultDigest. WithDigestOverride can adjust the choice per algorithm.
//
// Verify checks the signature only. Call ValidateClaims to enforce issuer,
// audience and expiry:
//
//	source := jwt.NewCertSource(jwt.NewMemoryStore())
//	verifier := jwt.NewVerifier(source)
//
//	claims, err := verifier.Verify(ctx, token)
//	if err != nil {
//		// reject
//	}
//	if err := jwt.ValidateClaims(claims, clientID, time.Now()); err != nil {
//		// reject
//	}
package jwt
