/*
 * tlox
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package config

import (
	"testing"
)

func TestConfig(t *testing.T) {

	if res := Str(LogLevel); res != "info" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Int(HistorySize); res != 100 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Str(REPLPrompt); res != "tlox> " {
		t.Error("Unexpected result:", res)
		return
	}
}
