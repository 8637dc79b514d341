package pkg

import "fmt"

var (
	// These variables are here only to show current version. They are set in makefile during build process
	MongoshardVersion         = "devel"
	GitRevision               = "devel"
	MongoshardVersionRevision = fmt.Sprintf("%s-%s", MongoshardVersion, GitRevision)
)
