package cli

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/hbnb"

// Version is stamped by the mage Build target through -ldflags -X.
var Version = "dev"

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string
	Revision  string
	Modified  bool
	GoVersion string
}

func currentBuild() buildInfo {
	info := buildInfo{Version: Version, GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func (b buildInfo) write(w io.Writer) {
	fmt.Fprintf(w, "hbnb %s\nmodule: %s\n", b.Version, modulePath)
	if b.Revision != "" {
		rev := b.Revision
		if b.Modified {
			rev += " (modified)"
		}
		fmt.Fprintf(w, "commit: %s\n", rev)
	}
	fmt.Fprintf(w, "go: %s\n", b.GoVersion)
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the hbnb version and build details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := currentBuild()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), b.Version)
				return nil
			}
			b.write(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version")
	return cmd
}
