// Parses flags, configures logging and runs barn's commands.
//
// Commands:
//
//	barn build <jobfile>     Check, build and report or print one job.
//	barn watch <jobfile>     Run build on a fixed interval until interrupted.
//	barn history [job]       List recorded invocations.
//	barn version             Show version information.
//
// Global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//	    --config    Settings file path.
//
// Flags override build-time defaults set via linker flags. After parsing, the
// global logger is reconfigured to reflect the final level before the command
// runs. A build whose steps failed ends the process with the build's exit
// status, reported through [ExitStatus].
package cli
