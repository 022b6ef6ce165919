package osdetail

// RunPowershellCmd runs a powershell command and returns its output.
func RunPowershellCmd(script string) (output []byte, err error) {
	// Create command to execute.
	return RunCmd(
		"powershell.exe",
		"-ExecutionPolicy", "Bypass",
		"-NoProfile",
		"-NonInteractive",
		"[System.Console]::OutputEncoding = [System.Text.Encoding]::UTF8\n"+script,
	)
}
