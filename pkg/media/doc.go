// Package media stores profile pictures imported from Google accounts.
//
// Storage has two implementations: S3Storage for Amazon S3 and compatible
// services, and LocalStorage for a directory served by the application.
// Importer downloads a remote image with a size cap and a content-type
// check, then hands it to a Storage:
//
//	imp := media.NewImporter(storage)
//	url, err := imp.Import(ctx, profile.PictureURL, "avatars/"+user.ID.String())
package media
