package buildinfo

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"
)

const Unknown = "unknown"

// set with -ldflags "-X github.com/comcast/platform-sensors/buildinfo.gitVersion=..."
var (
	gitVersion  = Unknown
	gitRevision = Unknown
	date        = Unknown

	Info info
)

type info struct {
	Arch        string `json:"arch"`
	Date        string `json:"build_date"`
	GitRevision string `json:"revision"`
	GitVersion  string `json:"version"`
	GoVersion   string `json:"go_version"`
	OS          string `json:"os"`
}

func init() {
	Info = info{
		Arch:        runtime.GOARCH,
		Date:        date,
		GitRevision: gitRevision,
		GitVersion:  gitVersion,
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
	}
}

// Short is the one line form used in log fields.
func Short() string {
	return fmt.Sprintf("%s (%s)", Info.GitVersion, Info.GitRevision)
}

// Print writes the build table for --version.
func Print(app string, dest io.Writer) error {
	w := tabwriter.NewWriter(dest, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", app, Info.GitVersion)
	fmt.Fprintf(w, "Revision:\t%s\n", Info.GitRevision)
	fmt.Fprintf(w, "Build Date:\t%s\n", Info.Date)
	fmt.Fprintf(w, "Go Version:\t%s\n", Info.GoVersion)
	fmt.Fprintf(w, "Platform:\t%s/%s\n", Info.OS, Info.Arch)
	return w.Flush()
}

func JSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(Info)
}
