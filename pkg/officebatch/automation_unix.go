//go:build !windows

package officebatch

// DetectAutomation probes for a native-application automation channel.
// Office automation exists only on Windows; elsewhere there is no channel and
// export always uses the conversion engine.
func DetectAutomation(logger *Logger) AutomationChannel {
	return nil
}
