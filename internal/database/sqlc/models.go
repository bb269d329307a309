package sqldb

// File is a row of the files table.
type File struct {
	ID       int64
	Path     string
	Filename string
	Size     int64
	Modified any
	Status   string
}

// ZipContent is a row of the zip_contents table.
type ZipContent struct {
	ID        int64
	ZipID     int64
	PathInZip string
	Size      int64
	Modified  any
}

// PotentialMatch is a row of the potential_matches table.
type PotentialMatch struct {
	ID            int64
	ZipID         int64
	ExtractedPath string
	Confidence    float64
}
