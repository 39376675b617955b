// Package selection holds the interactive pick-from-a-list loops. The core
// returns typed candidate sets; turning them into prompts happens only here,
// so headless callers of the libraries never see a prompt.
package selection

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/packsmith/packsmith/cmd/packsmith/internal/app"
	"github.com/packsmith/packsmith/pkg/errors"
	"github.com/packsmith/packsmith/pkg/types"
)

// ResolveLoader resolves a loader version, prompting the user to choose when
// several versions are compatible.
func ResolveLoader(ctx context.Context, a *app.App, gameVersion string, name types.LoaderName, requested string) (*types.LoaderArtifact, error) {
	res, err := a.Loaders.Resolve(ctx, gameVersion, name, requested)
	if err != nil {
		return nil, err
	}
	if !res.NeedsSelection() {
		return res.Artifact, nil
	}

	fmt.Printf("Available %s versions for %s:\n", name, gameVersion)
	for i, c := range res.Candidates {
		marker := ""
		if c.Recommended {
			marker = " (recommended)"
		}
		fmt.Printf("  %2d) %s%s\n", i+1, c.Version, marker)
	}

	choice, err := prompt(fmt.Sprintf("Select a version [1-%d]: ", len(res.Candidates)), len(res.Candidates))
	if err != nil {
		return nil, err
	}

	picked := res.Candidates[choice-1]
	return &types.LoaderArtifact{
		Name:         name,
		Version:      picked.Version,
		InstallerRef: picked.InstallerRef,
		SHA256:       picked.SHA256,
	}, nil
}

// prompt reads a 1-based choice from stdin.
func prompt(label string, max int) (int, error) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, errors.Wrap(err, errors.ErrInvalidInput, "selection aborted")
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n >= 1 && n <= max {
			return n, nil
		}
		fmt.Printf("Enter a number between 1 and %d\n", max)
	}
}
