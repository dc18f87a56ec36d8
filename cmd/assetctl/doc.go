// Command assetctl manages an asset library from the terminal.
//
// It opens the same library the server uses, so the two cannot run against
// one library at the same time: the catalog lock is held by whichever
// started first.
//
// Usage:
//
//	assetctl list <assets|textures|stockshots> [--json]
//	assetctl import asset --fbx model.fbx [--texture t.png ...] [--name N]
//	assetctl import texture FILES... [--name N]
//	assetctl import stockshot FILES... [--name N]
//	assetctl rename <kind> <id> <name>
//	assetctl delete <kind> <id> [--yes]
//	assetctl export <kind> <id> <dest.zip>
//	assetctl thumbnail rebuild <kind> [--force]
//	assetctl thumbnail set <id> <image>
//	assetctl config init [--path P]
//	assetctl version
//
// A single stockshot frame expands to every numbered sibling in its
// directory, as the import dialog of the UI does.
package main
