package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_IsAllowed(t *testing.T) {
	testCases := []struct {
		description string
		policy      *Policy
		path        string
		expect      bool
	}{
		{
			description: "nil policy serves everything",
			policy:      nil,
			path:        "/private/keys.txt",
			expect:      true,
		},
		{
			description: "open mode serves unlisted paths",
			policy:      &Policy{Mode: ModeOpen},
			path:        "/docs",
			expect:      true,
		},
		{
			description: "blocked subtree is hidden",
			policy:      &Policy{BlockList: []string{"/private"}},
			path:        "/private/keys.txt",
			expect:      false,
		},
		{
			description: "block matches the subtree root itself",
			policy:      &Policy{BlockList: []string{"/private"}},
			path:        "/private",
			expect:      false,
		},
		{
			description: "block does not match sibling prefixes",
			policy:      &Policy{BlockList: []string{"/private"}},
			path:        "/private-notes/readme.txt",
			expect:      true,
		},
		{
			description: "block has priority over allow",
			policy:      &Policy{AllowList: []string{"/docs"}, BlockList: []string{"/docs/internal"}},
			path:        "/docs/internal/plan.txt",
			expect:      false,
		},
		{
			description: "allow list restricts everything else",
			policy:      &Policy{AllowList: []string{"/docs"}},
			path:        "/music",
			expect:      false,
		},
		{
			description: "allow list admits the listed subtree",
			policy:      &Policy{AllowList: []string{"/docs"}},
			path:        "/docs/guide.txt",
			expect:      true,
		},
		{
			description: "deny mode with no allow list serves nothing",
			policy:      &Policy{Mode: ModeDeny},
			path:        "/docs",
			expect:      false,
		},
		{
			description: "root allow rule serves everything",
			policy:      &Policy{Mode: ModeDeny, AllowList: []string{"/"}},
			path:        "/anything/goes.txt",
			expect:      true,
		},
		{
			description: "matching is case-sensitive",
			policy:      &Policy{BlockList: []string{"/Private"}},
			path:        "/private/keys.txt",
			expect:      true,
		},
		{
			description: "trailing slashes in rules are tolerated",
			policy:      &Policy{BlockList: []string{"/private/"}},
			path:        "/private/keys.txt",
			expect:      false,
		},
	}

	for _, testCase := range testCases {
		actual := testCase.policy.IsAllowed(testCase.path)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	assert.Nil(t, ToConfig(nil))
	assert.Nil(t, FromConfig(nil))

	original := &Policy{Mode: ModeDeny, AllowList: []string{"/docs"}, BlockList: []string{"/docs/internal"}}
	restored := FromConfig(ToConfig(original))
	assert.Equal(t, original, restored)
}

func TestContextHelpers(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	p := &Policy{Mode: ModeOpen}
	ctx := WithPolicy(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
}
