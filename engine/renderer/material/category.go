package material

// Category is the surface category of a character material. It is resolved once from the
// source material name at assembly time and never re-evaluated.
type Category int

const (
	// CategoryOther is the default shading path for auxiliary geometry.
	CategoryOther Category = iota

	// CategoryFace uses the SDF face light map shading path.
	CategoryFace

	// CategoryHair binds the hair light, ramp and normal maps.
	CategoryHair

	// CategoryDress shares the hair texture set.
	CategoryDress

	// CategoryBody binds the body light, ramp, normal and emissive maps.
	CategoryBody

	// CategoryOutline is derived for the silhouette copy of every mesh.
	CategoryOutline
)

var categoryNames = map[Category]string{
	CategoryOther:   "other",
	CategoryFace:    "face",
	CategoryHair:    "hair",
	CategoryDress:   "dress",
	CategoryBody:    "body",
	CategoryOutline: "outline",
}

// String returns the category name.
func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "other"
}

// CategoryFromName maps a source material name onto a Category. Only the exact names
// "face", "hair", "dress" and "body" are recognized; anything else, including the empty
// name, falls back to CategoryOther. The outline category is never derived from a name.
//
// Parameters:
//   - name: the source material name
//
// Returns:
//   - Category: the resolved category
func CategoryFromName(name string) Category {
	switch name {
	case "face":
		return CategoryFace
	case "hair":
		return CategoryHair
	case "dress":
		return CategoryDress
	case "body":
		return CategoryBody
	default:
		return CategoryOther
	}
}
