package document

import "errors"

var (
	// ErrMissingDelimiter means a file opened a frontmatter block but never closed it.
	ErrMissingDelimiter = errors.New("missing closing frontmatter delimiter '---'")
	// ErrInvalidFrontmatter means the header is not a YAML key-value map.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
	// ErrUnknownContentType means a file is not under docs/, pages/ or posts/.
	ErrUnknownContentType = errors.New("unknown content type")
	// ErrExists is returned when a write would overwrite an existing file.
	ErrExists = errors.New("file already exists")
)
