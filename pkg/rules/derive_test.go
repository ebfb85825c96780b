package rules

import (
	"testing"

	"github.com/arthur-debert/composer/pkg/testutil"
	"github.com/arthur-debert/composer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	srcBase = "/srv/src"
	dstBase = "/srv/dst"
)

func testPolicy() types.Policy {
	return types.Policy{
		Architectures:     []string{"x86_64", "i686", "aarch64", "noarch"},
		ChannelPriority:   []string{"BaseOS", "AppStream"},
		MoveDebugPackages: true,
		AllDirMarker:      "/all/",
		OSDirMarker:       "/os/",
		DebugDirMarker:    "/debug/",
	}
}

func TestDeriveRules_EmptyMappings(t *testing.T) {
	one := testutil.Mapping(testutil.Entry(srcBase, "BaseOS/x86_64/os/Packages", "a.rpm", "BaseOS", "x86_64"))

	tests := []struct {
		name   string
		source types.TreeMapping
		dest   types.TreeMapping
	}{
		{"empty source", types.TreeMapping{}, one},
		{"empty dest", one, types.TreeMapping{}},
		{"both nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds := DeriveRules(tt.source, tt.dest, testPolicy())
			require.NotNil(t, cmds)
			assert.Empty(t, cmds.Mkdir)
			assert.Empty(t, cmds.Mv)
			assert.Empty(t, cmds.Ln)
		})
	}
}

func TestDeriveRules_ChannelPriority(t *testing.T) {
	// The package is in AppStream in the source tree; the destination has
	// it in both channels. BaseOS comes first in the priority list.
	source := testutil.Mapping(
		testutil.Entry(srcBase, "AppStream/x86_64/os/Packages", "foo-1.rpm", "AppStream", "x86_64"),
	)
	dest := testutil.Mapping(
		testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", "foo-1.rpm", "BaseOS", "x86_64"),
		testutil.Entry(dstBase, "AppStream/x86_64/all/Packages", "foo-1.rpm", "AppStream", "x86_64"),
	)

	cmds := DeriveRules(source, dest, testPolicy())

	assert.Empty(t, cmds.Mv)
	assert.Equal(t, []types.Pair{{
		Src: dstBase + "/BaseOS/x86_64/all/Packages/foo-1.rpm",
		Dst: dstBase + "/AppStream/x86_64/os/Packages/foo-1.rpm",
	}}, cmds.Ln)
}

func TestDeriveRules_ArchitectureOutranksChannel(t *testing.T) {
	// AppStream has the entry's own architecture, BaseOS only a fallback
	// architecture. The own architecture wins despite the lower channel.
	source := testutil.Mapping(
		testutil.Entry(srcBase, "BaseOS/aarch64/os/Packages", "bar-2.rpm", "BaseOS", "aarch64"),
	)
	dest := testutil.Mapping(
		testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", "bar-2.rpm", "BaseOS", "x86_64"),
		testutil.Entry(dstBase, "AppStream/aarch64/all/Packages", "bar-2.rpm", "AppStream", "aarch64"),
	)

	cmds := DeriveRules(source, dest, testPolicy())

	require.Len(t, cmds.Ln, 1)
	assert.Equal(t, dstBase+"/AppStream/aarch64/all/Packages/bar-2.rpm", cmds.Ln[0].Src)
	assert.Equal(t, dstBase+"/BaseOS/aarch64/os/Packages/bar-2.rpm", cmds.Ln[0].Dst)
}

func TestDeriveRules_FallbackArchitecture(t *testing.T) {
	// noarch packages built once are found through the fallback list and
	// placed under the source architecture.
	source := testutil.Mapping(
		testutil.Entry(srcBase, "BaseOS/x86_64/os/Packages", "tzdata-2024a.rpm", "BaseOS", "x86_64"),
	)
	dest := testutil.Mapping(
		testutil.Entry(dstBase, "BaseOS/noarch/all/Packages", "tzdata-2024a.rpm", "BaseOS", "noarch"),
	)

	cmds := DeriveRules(source, dest, testPolicy())

	require.Len(t, cmds.Ln, 1)
	assert.Equal(t, dstBase+"/BaseOS/x86_64/os/Packages/tzdata-2024a.rpm", cmds.Ln[0].Dst)
}

func TestDeriveRules_UnmatchedProducesNothing(t *testing.T) {
	source := testutil.Mapping(
		testutil.Entry(srcBase, "BaseOS/x86_64/os/Packages", "only-in-source.rpm", "BaseOS", "x86_64"),
		testutil.Entry(srcBase, "BaseOS/x86_64/os/Packages", "shared.rpm", "BaseOS", "x86_64"),
	)
	dest := testutil.Mapping(
		testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", "shared.rpm", "BaseOS", "x86_64"),
		testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", "only-in-dest.rpm", "BaseOS", "x86_64"),
		// channel outside the priority list is never searched
		testutil.Entry(dstBase, "Extras/x86_64/all/Packages", "only-in-source.rpm", "Extras", "x86_64"),
	)

	cmds := DeriveRules(source, dest, testPolicy())

	require.Len(t, cmds.Ln, 1)
	assert.Equal(t, dstBase+"/BaseOS/x86_64/all/Packages/shared.rpm", cmds.Ln[0].Src)
	for _, ln := range cmds.Ln {
		assert.NotContains(t, ln.Src, "only-in-dest")
	}
}

func TestDeriveRules_ReplacementsAffectOnlyChannel(t *testing.T) {
	policy := testPolicy()
	policy.Replacements = map[string]string{"BaseOS": "baseos-new"}

	source := testutil.Mapping(
		testutil.Entry(srcBase, "BaseOS/x86_64/os/Packages", "glibc-2.28.rpm", "BaseOS", "x86_64"),
		testutil.Entry(srcBase, "AppStream/x86_64/os/Packages", "vim-8.rpm", "AppStream", "x86_64"),
	)
	dest := testutil.Mapping(
		testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", "glibc-2.28.rpm", "BaseOS", "x86_64"),
		testutil.Entry(dstBase, "AppStream/x86_64/all/Packages", "vim-8.rpm", "AppStream", "x86_64"),
	)

	cmds := DeriveRules(source, dest, policy)

	assert.ElementsMatch(t, []types.Pair{
		{
			Src: dstBase + "/BaseOS/x86_64/all/Packages/glibc-2.28.rpm",
			Dst: dstBase + "/baseos-new/x86_64/os/Packages/glibc-2.28.rpm",
		},
		{
			Src: dstBase + "/AppStream/x86_64/all/Packages/vim-8.rpm",
			Dst: dstBase + "/AppStream/x86_64/os/Packages/vim-8.rpm",
		},
	}, cmds.Ln)
}

func TestDeriveRules_EmptyReplacementIsIgnored(t *testing.T) {
	policy := testPolicy()
	policy.Replacements = map[string]string{"BaseOS": ""}

	source := testutil.Mapping(testutil.Entry(srcBase, "BaseOS/x86_64/os/Packages", "a.rpm", "BaseOS", "x86_64"))
	dest := testutil.Mapping(testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", "a.rpm", "BaseOS", "x86_64"))

	cmds := DeriveRules(source, dest, policy)

	require.Len(t, cmds.Ln, 1)
	assert.Equal(t, dstBase+"/BaseOS/x86_64/os/Packages/a.rpm", cmds.Ln[0].Dst)
}

func TestDeriveRules_DebugRelocation(t *testing.T) {
	source := testutil.Mapping(
		testutil.Entry(srcBase, "BaseOS/x86_64/os/Packages", "bash-5.1.rpm", "BaseOS", "x86_64"),
	)
	dest := testutil.Mapping(
		testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", "bash-5.1.rpm", "BaseOS", "x86_64"),
		testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", "bash-debuginfo-5.1.rpm", "BaseOS", "x86_64"),
		testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", "bash-debugsource-5.1.rpm", "BaseOS", "x86_64"),
		// already outside the all layout
		testutil.Entry(dstBase, "BaseOS/x86_64/debug/Packages", "zsh-debuginfo-5.8.rpm", "BaseOS", "x86_64"),
	)

	t.Run("enabled", func(t *testing.T) {
		cmds := DeriveRules(source, dest, testPolicy())

		assert.Equal(t, []types.Pair{
			{
				Src: dstBase + "/BaseOS/x86_64/all/Packages/bash-debuginfo-5.1.rpm",
				Dst: dstBase + "/BaseOS/x86_64/debug/Packages/bash-debuginfo-5.1.rpm",
			},
			{
				Src: dstBase + "/BaseOS/x86_64/all/Packages/bash-debugsource-5.1.rpm",
				Dst: dstBase + "/BaseOS/x86_64/debug/Packages/bash-debugsource-5.1.rpm",
			},
		}, cmds.Mv)
		assert.Len(t, cmds.Ln, 1)
	})

	t.Run("every all segment is replaced", func(t *testing.T) {
		dest := testutil.Mapping(
			testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", "bash-5.1.rpm", "BaseOS", "x86_64"),
			testutil.Entry(dstBase, "all/BaseOS/x86_64/all/Packages", "x-debuginfo-1.rpm", "BaseOS", "x86_64"),
		)

		cmds := DeriveRules(source, dest, testPolicy())

		assert.Equal(t, []types.Pair{{
			Src: dstBase + "/all/BaseOS/x86_64/all/Packages/x-debuginfo-1.rpm",
			Dst: dstBase + "/debug/BaseOS/x86_64/debug/Packages/x-debuginfo-1.rpm",
		}}, cmds.Mv)
	})

	t.Run("disabled", func(t *testing.T) {
		policy := testPolicy()
		policy.MoveDebugPackages = false

		cmds := DeriveRules(source, dest, policy)
		assert.Empty(t, cmds.Mv)
		assert.Len(t, cmds.Ln, 1)
	})
}

func TestDeriveRules_PackageSubpathIsPartOfKey(t *testing.T) {
	source := testutil.Mapping(
		testutil.Entry(srcBase, "BaseOS/x86_64/os/Packages/a", "attr-2.4.rpm", "BaseOS", "x86_64"),
	)
	dest := testutil.Mapping(
		testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages/b", "attr-2.4.rpm", "BaseOS", "x86_64"),
	)

	cmds := DeriveRules(source, dest, testPolicy())
	assert.Empty(t, cmds.Ln)
}

func TestDeriveRules_Deterministic(t *testing.T) {
	source := types.TreeMapping{}
	dest := types.TreeMapping{}
	for _, name := range []string{"e.rpm", "a.rpm", "d.rpm", "c.rpm", "b.rpm"} {
		source.Add(testutil.Entry(srcBase, "BaseOS/x86_64/os/Packages", name, "BaseOS", "x86_64"))
		dest.Add(testutil.Entry(dstBase, "BaseOS/x86_64/all/Packages", name, "BaseOS", "x86_64"))
	}

	first := DeriveRules(source, dest, testPolicy())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DeriveRules(source, dest, testPolicy()))
	}
	assert.Equal(t, dstBase+"/BaseOS/x86_64/os/Packages/a.rpm", first.Ln[0].Dst)
}
