package main

func registerCommands(r *CommandRegistry) {
	r.Register(&Command{
		Name:        "login",
		Description: "Sign in and store the session",
		Usage:       "skinanalyze login --email <email> [--password <password>] [--role patient|doctor]",
		Examples: []string{
			"skinanalyze login --email jane@example.com --role doctor",
			"echo secret1 | skinanalyze login --email john@example.com",
		},
		Run: loginCommand,
	})
	r.Register(&Command{
		Name:        "register",
		Description: "Create an account",
		Usage:       "skinanalyze register --name <name> --email <email> --password <pw> --confirm <pw> [--role patient|doctor]",
		Examples:    []string{"skinanalyze register --name 'John Doe' --email john@example.com --password secret1 --confirm secret1"},
		Run:         registerCommand,
	})
	r.Register(&Command{
		Name:        "logout",
		Description: "Sign out and forget the stored session",
		Usage:       "skinanalyze logout",
		Run:         logoutCommand,
	})
	r.Register(&Command{
		Name:        "whoami",
		Description: "Show the signed-in role",
		Usage:       "skinanalyze whoami",
		Run:         whoamiCommand,
	})
	r.Register(&Command{
		Name:        "upload",
		Description: "Upload a skin image for analysis",
		Usage:       "skinanalyze upload [--description <text>] <image>",
		Examples:    []string{"skinanalyze upload --description 'itchy patch on cheek' face.jpg"},
		Run:         uploadCommand,
	})
	r.Register(&Command{
		Name:        "analysis",
		Description: "Show the result of the last upload",
		Usage:       "skinanalyze analysis [--clear]",
		Run:         analysisCommand,
	})
	r.Register(&Command{
		Name:        "symptoms",
		Description: "Submit a symptom description",
		Usage:       "skinanalyze symptoms --location <v> --duration <v> --severity <v> --itchiness <v> --pain <v> --description <text>",
		Examples: []string{
			"skinanalyze symptoms --location face --duration days --severity mild --itchiness no --pain no --description 'Red patches on both cheeks'",
		},
		Run: symptomsCommand,
	})
	r.Register(&Command{
		Name:        "reports",
		Description: "List analysis reports",
		Usage:       "skinanalyze reports [--patient <id>] [--severity low|medium|high] [--from YYYY-MM-DD] [--to YYYY-MM-DD]",
		Examples:    []string{"skinanalyze reports --severity high --from 2025-04-01"},
		Run:         reportsCommand,
	})
	r.Register(&Command{
		Name:        "report",
		Description: "Show one report",
		Usage:       "skinanalyze report <id>",
		Run:         reportCommand,
	})
	r.Register(&Command{
		Name:        "patients",
		Description: "List patients (doctors only)",
		Usage:       "skinanalyze patients",
		Run:         patientsCommand,
	})
	r.Register(&Command{
		Name:        "patient-update",
		Description: "Update fields of a patient record (doctors only)",
		Usage:       "skinanalyze patient-update [--name v] [--email v] [--age n] [--condition v] [--image url] <id>",
		Examples:    []string{"skinanalyze patient-update --condition Eczema p-2"},
		Run:         patientUpdateCommand,
	})
	r.Register(&Command{
		Name:        "profile",
		Description: "Show your profile",
		Usage:       "skinanalyze profile",
		Run:         profileCommand,
	})
	r.Register(&Command{
		Name:        "profile-update",
		Description: "Update your profile",
		Usage:       "skinanalyze profile-update [--name v] [--email v] [--age n] [--phone v] [--image url]",
		Run:         profileUpdateCommand,
	})
	r.Register(&Command{
		Name:        "dashboard",
		Description: "Show the dashboard for the signed-in role",
		Usage:       "skinanalyze dashboard [--tab <id>] [--day YYYY-MM-DD]",
		Examples: []string{
			"skinanalyze dashboard --tab upload",
			"skinanalyze dashboard --tab calendar --day 2025-04-24",
		},
		Run: dashboardCommand,
	})
	r.Register(&Command{
		Name:        "open",
		Description: "Render the page at an application path",
		Usage:       "skinanalyze open <path>",
		Examples:    []string{"skinanalyze open /reports/1", "skinanalyze open /about"},
		Run:         openCommand,
	})
	r.Register(&Command{
		Name:        "contact",
		Description: "Send a message to the Skin Analyze team",
		Usage:       "skinanalyze contact --name <v> --email <v> [--subject <v>] --message <text>",
		Run:         contactCommand,
	})
	r.Register(&Command{
		Name:        "version",
		Description: "Print version information",
		Usage:       "skinanalyze version",
		Run:         versionCommand,
	})
}
