/*
Package store manages the on-disk content of the library.

Every item is a directory named by a random UUID under the root of its kind:

	<library>/assets/<id>/model.fbx
	<library>/assets/<id>/textures/albedo.png
	<library>/assets/<id>/thumbnail.png
	<library>/textures/<id>/albedo.png
	<library>/stockshots/<id>/take.0001.exr

Directory names are the only identity; display names live in the catalog and
never reach a path. Ids received from outside the process are checked with
[ValidateID] before they are joined into a path.

Copies write "<name>.part" and rename on success, so a cancelled or failed
import never leaves a file that looks complete. [Store.AttemptCleanup] removes
a partial entry on a best-effort basis.
*/
package store
