// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/retext/pkg/config"
)

func ExampleLoad() {
	ctx := context.Background()

	dir, err := os.MkdirTemp("", "retext-example")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	configHCL := `
rule {
  from       = "hello world"
  to         = "goodbye"
  smart_case = true
}

documents  = ["site/**/*.html"]
output_dir = "out"
`

	configPath := filepath.Join(dir, "retext.hcl")
	if err := os.WriteFile(configPath, []byte(configHCL), 0o644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	for _, r := range cfg.Rules {
		fmt.Println(r)
	}
	fmt.Println(cfg)

	// Output:
	// "hello world" -> "goodbye" [s]
	// 1 rules, 0 sources [site/**/*.html] -> out (static)
}
