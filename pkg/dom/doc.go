/*
Package dom hosts a live HTML document for the rewrite engine.

	+-------------+  SetText / AppendChild / ...   +-------------+
	|  Document   | -----------------------------> |  Observer   |
	| (x/net/html)|        MutationRecord          |  (pending)  |
	+------+------+                                +------+------+
	       |                                              |
	       | Subtree(n)                         Flush()   |
	       v                                              v
	+-------------+                                +-------------+
	|  tree.Root  | <----------------------------- |  Handler    |
	+-------------+        changed subtrees        +-------------+

🎯 Purpose:
- Gives the engine an ordered, lazily enumerated view of text nodes
- Records every mutation made through the document's methods
- Delivers queued records in batches, the way a browser delivers
  MutationObserver callbacks at a microtask checkpoint

⚡ Key Responsibilities:
- Pre-order text enumeration that skips script, style and other raw-text containers
- Observer subscription that can be switched off and on around self-inflicted writes
- CSS selection of subtrees through goquery

🔍 Example:

	doc, err := dom.ParseString(page)
	if err != nil {
		return err
	}

	obs := doc.NewObserver(doc.Body())
	obs.Subscribe(func(ctx context.Context, changes []tree.Root) {
		// rewrite changed subtrees
	})

	doc.AppendChild(doc.Body(), node)
	doc.Flush(ctx)
*/
package dom
