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

/*
Package config loads retext configuration files.

🎯 Purpose:
- Reads rules, rule sources and run options from YAML, HCL or JSON
- Validates values and fills in defaults
- Resolves remote rule sets into one ordered rule list

🔄 Flow:

	.retext.yaml ──► GetParser(ext) ──► Parse ──► Validate ──► *Config
	                                                             │
	                      RuleFetcher ◄── ResolveRuleSources ◄───┘
	                           │
	                           └──► ParseRuleSet (same parsers) ──► []rule.Rule

🤝 Interfaces:
- Parser: one per format, registered in init()
- RuleFetcher: implemented by the remote package

🔍 Example:

	cfg, err := config.Load(ctx, ".retext.yaml")
	if err != nil {
		return err
	}
	rules, err := config.ResolveRuleSources(ctx, cfg, remote.NewFetcher())
*/
package config
