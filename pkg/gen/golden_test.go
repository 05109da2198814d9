// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// atoi is the example package whose generated test file is committed.
var atoi = filepath.Join("..", "..", "examples", "atoi")

func Test_committed_example_output_is_up_to_date(t *testing.T) {
	source := filepath.Join(atoi, "cases.go")
	src, err := os.ReadFile(source)
	require.NoError(t, err)
	committed, err := os.ReadFile(filepath.Join(atoi, "cases_gen_test.go"))
	require.NoError(t, err)

	out, err := (&Generator{}).Source(source, src,
		ImportPath+"/examples/atoi")

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, filepath.Join(atoi, "cases_gen_test.go"), out.Path)
	assert.Equal(t, string(committed), string(out.Content),
		"regenerate examples/atoi with go generate")
}
