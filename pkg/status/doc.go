/*
Package status writes rewritten documents and tracks what happened to each.

	            +-------------+
	            |   Status    |
	            |  (Output)   |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  Targets  |           |  Logs   |
	| (atomic)  |           | (debug) |
	+-----------+           +---------+

🎯 Purpose:
- Maps document paths to output targets (an output dir, or in place)
- Skips writes whose content is already on disk
- Records new, modified, unchanged and failed documents

🔍 Example:

	mgr := status.New(cfg.OutputDir, zerolog.Ctx(ctx))
	info, err := mgr.Put(ctx, "site/index.html", rendered, matches)
	if err != nil {
		return err
	}
	fmt.Println(info.Status) // "modified"
*/
package status
