package media

type AssetType string

const (
	AssetTypePhoto     AssetType = "photo"     // original person photos
	AssetTypeThumbnail AssetType = "thumbnail" // generated photo thumbnails
	AssetTypeGedcom    AssetType = "gedcom"    // retained GEDCOM source files
	AssetTypeUnknown   AssetType = "unknown"
)
