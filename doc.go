/*
Package hbx is the home of an hbx template compiler.

hbx is a Handlebars-like dialect with elements, mustaches, block
expressions, modifiers and slots.  The compiler in hbxjs translates a
parsed template into javascript that, evaluated against a small runtime,
constructs and updates a DOM tree with fine-grained reactivity.

The module is organized as:

	ast        the syntax tree a front end produces and the compiler consumes
	errortypes positioned diagnostics with stable error and warning codes
	hbxjs      the javascript backend: visitor, lowering, serialization,
	           and V3 source maps

Lexical parsing and the runtime library itself are external collaborators;
see hbxjs's symbol table for the runtime contract.
*/
package hbx
