// Package plugin implements the Plugin Host Abstraction (PHA): a single
// instance type uniformly surfacing VST2, VST3 and CLAP plugins to the
// rest of the engine.
//
// Loading an actual native module (dlopen/LoadLibrary, resolving the
// plugin's factory entry point, talking its C ABI) is explicitly an
// external collaborator's job — the engine treats scanner binaries and
// loaders as suppliers of an opaque handle to each plugin instance. Host
// therefore depends on a NativeLoader supplied by the embedding
// application; packages plugin/vst2, plugin/vst3 and plugin/clap provide
// the format-specific event encoding, parameter shaping, and (for VST3)
// run-loop machinery such a loader needs, grounded respectively on
// pipelined.dev/audio/vst2's wire types, justyntemme-vst3go's pkg/midi
// and pkg/framework/param shapes, and original_source/clap_checker's
// clap_event_* structs.
//
// Grounded on sointu's cmd/sointu-vsti/main.go (the mirror image of this
// package: sointu as a VST2 *guest*) for the create/process/destroy
// lifecycle shape, generalized from "be a plugin" to "host one."
package plugin
