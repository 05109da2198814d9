// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shouldmatch

// MatchErr is the format-string of a synthesized failure message.
const MatchErr = matchErr

// GotLog is the format-string logging a mismatched value.
const GotLog = gotLog

// View returns the value a pattern is matched against for given result.
func View[R any](r R) any { return view(r) }

// Render returns the textual representation of given value.
func Render(v any) string { return render(v) }
