// Package migrations registers the schema. Importing it for side effects
// makes every migration available to the migrate commands.
package migrations
