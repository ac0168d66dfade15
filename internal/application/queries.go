package application

type SearchFormat string

const (
	// SearchFormatShort returns one "id: subject" field per match.
	SearchFormatShort SearchFormat = "s"
	// SearchFormatLong returns every field of every match as a multipart body.
	SearchFormatLong SearchFormat = "l"
)

func (f SearchFormat) Valid() bool {
	switch f {
	case SearchFormatShort, SearchFormatLong:
		return true
	default:
		return false
	}
}

type SearchQuery struct {
	Query   string
	Format  SearchFormat
	OrderBy string
}
