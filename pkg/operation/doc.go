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
Package operation runs substitution sessions against documents.

🎯 Purpose:
- Turns an applyRules request into a prepared rule list and an initial pass
- Starts a bridge when the request asks for dynamic mode
- Keeps a live document across reloads so a dynamic session sees new content
- Runs independent documents one after another or concurrently

🔄 Flow:

	applyRules ──► Host.ApplyRules
	                 │
	                 ├─► close previous session's observer
	                 ├─► sessionStarted
	                 ├─► rule.Prepare (expand, dedup, compile)
	                 ├─► rewrite title once
	                 ├─► walk body (or RootSelector matches)
	                 ├─► countUpdate(initial total)
	                 └─► dynamic? ──► observer on body ──► bridge.Start

⚡ Concurrency:
A Host belongs to a single document and is driven from one goroutine. The
OperationRunner is the only place work fans out, and it fans out across
documents, never within one.

🔍 Example:

	doc, _ := dom.ParseString(page)
	host, _ := operation.NewHost(doc, operation.Options{Reporter: reporter})
	sess, err := host.ApplyRules(ctx, message.NewApplyRules("", true, rules))
	// ... later mutations to doc followed by doc.Flush(ctx) keep sess.Total() current
*/
package operation
