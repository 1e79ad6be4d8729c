/*
Package stitch is a small concatenative scripting runtime meant to be
embedded in a host application to power user automation: commands,
keybindings, menu entries, settings, and periodic background tasks.

A script is a whitespace-separated sequence of words operating on a shared
value stack:

	: inc 1 + ;
	cmd doc{ bump the counter } key: ctrl+i
	5 inc

Words live in a dictionary. `: name ... ;` compiles a new word, `[ ... ]`
captures an anonymous quotation as a first-class value, and combinators
(if, when, unless, times, each, map, filter, fold) run quotations. Syntax
words are immediate: they execute even while a definition is open, which is
how the attribute layer (cmd, doc{, key:, every:, ...) annotates the word
under construction with host-visible metadata.

The host enters through a narrow bridge: Run and RunFresh execute source or
a single word, Expose and Def publish host values and functions as words,
On/Off/Emit carry events, and named chrons tick events on an interval.
Commands, Settings, and Hooks return typed snapshots of annotated words for
host UIs.

A Runtime is single-threaded and cooperative; it must not be shared across
goroutines. Host-initiated invocations that can overlap in time (a chron
tick handler against an open command palette, say) should use RunFresh so
each runs against its own stack. Hook wiring respects the same contract:
BindHooks only queues invocations when events are emitted, chron tick
goroutines included, and the owning goroutine runs them by calling
DispatchHooks at a safe point.
*/
package stitch

// Version of the runtime, reported by embedding hosts.
const Version = "0.3.0"
