package report

import "github.com/pterm/pterm"

var (
	infoColorFG  = pterm.FgLightGreen
	infoStyleBG  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	errorColorFG = pterm.FgRed
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
)

// displayError displays an error message to the console.
func displayError(message string) {
	errorStyleBG.Print("Error")
	errorColorFG.Println(" " + message)
}

// displayFatal displays a fatal error message to the console.
func displayFatal(message string) {
	errorStyleBG.Print("Fatal")
	errorColorFG.Println(" " + message)
}

// displayInfo displays a tagged informational message to the console.
func displayInfo(tag, message string) {
	infoStyleBG.Print(tag)
	infoColorFG.Println(" " + message)
}
