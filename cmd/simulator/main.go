package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "full":
		fullCmd(apiURL, args)
	case "populate":
		populateCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`SkillSwap Simulator - Development tool for seeding swap flows

USAGE:
  simulator <command> [options]

COMMANDS:
  full      Drive two users through request, match, setup, messages and a session
  populate  Create fake users each posting an open swap request
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

The backend must run with ENVIRONMENT=development so the master
verification code is accepted.

EXAMPLES:
  # Run the complete two-user exchange flow
  simulator full

  # Seed the marketplace with 10 open requests
  simulator populate --count=10`)
}

var seedSkills = [][2]string{
	{"Go", "Spanish"},
	{"Guitar", "Photography"},
	{"French", "Cooking"},
	{"Piano", "German"},
	{"Drawing", "Yoga"},
	{"Japanese", "Chess"},
	{"Public Speaking", "Python"},
	{"Baking", "Italian"},
	{"Singing", "Woodworking"},
	{"Spanish", "Guitar"},
}

func fullCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("full", flag.ExitOnError)
	sessions := fs.Int("sessions", 5, "Session target each participant commits to")
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	fmt.Println("=== SkillSwap Simulator: Full Flow ===")
	fmt.Println()

	// 1. Two users with complementary skills
	fmt.Print("Creating teacher user... ")
	alice, aliceToken, err := client.RegisterUser("Alice")
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (%s)\n", alice.Email)

	fmt.Print("Creating learner user... ")
	bob, bobToken, err := client.RegisterUser("Bob")
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (%s)\n", bob.Email)

	// 2. Alice posts a request, Bob responds, Alice accepts
	fmt.Print("Posting swap request (offering Go, looking for Spanish)... ")
	request, err := client.CreateRequest(aliceToken, "Go", "Spanish", "Evenings, remote")
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	fmt.Print("Responding to request... ")
	if _, err := client.Respond(bobToken, request.ID); err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	fmt.Print("Accepting response... ")
	swap, err := client.AcceptResponse(aliceToken, request.ID, bob.ID)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (swap %s, status %s)\n", swap.ID, swap.Status)

	// 3. Both sides commit session targets, activating the swap
	fmt.Print("Setting session targets... ")
	if _, err := client.SetupSwap(aliceToken, swap.ID, *sessions); err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	swap, err = client.SetupSwap(bobToken, swap.ID, *sessions)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (status %s)\n", swap.Status)

	// 4. A short conversation
	fmt.Print("Exchanging messages... ")
	if err := client.SendMessage(aliceToken, swap.ID, "Hi! When works for our first session?"); err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	if err := client.SendMessage(bobToken, swap.ID, "Thursday evening suits me."); err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	// 5. Schedule the first session
	fmt.Print("Scheduling first session... ")
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	session, err := client.CreateSession(aliceToken, swap.ID, start, start.Add(time.Hour))
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (session %s, skill %s)\n", session.ID, session.SkillName)

	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  ACTIVE SWAP READY")
	fmt.Println("=========================================")
	fmt.Println()
	fmt.Printf("  Swap ID:     %s\n", swap.ID)
	fmt.Printf("  Requester:   %s (%s)\n", alice.Name, alice.Email)
	fmt.Printf("  Receiver:    %s (%s)\n", bob.Name, bob.Email)
	fmt.Println()
	fmt.Println("  Log in as either user (password: testpassword123)")
	fmt.Println("  to explore messages, sessions and progress.")
	fmt.Println()
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	count := fs.Int("count", 10, "Number of users and open requests to create")
	fs.Parse(args)

	if *count < 1 {
		fmt.Println("Error: --count must be at least 1")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Printf("Seeding %d users with open swap requests...\n\n", *count)

	for i := 0; i < *count; i++ {
		skills := seedSkills[i%len(seedSkills)]
		name := fmt.Sprintf("Seed%d", i+1)

		user, token, err := client.RegisterUser(name)
		if err != nil {
			fmt.Printf("  [%d/%d] FAILED to create user: %v\n", i+1, *count, err)
			continue
		}

		if _, err := client.CreateRequest(token, skills[0], skills[1], "Flexible schedule"); err != nil {
			fmt.Printf("  [%d/%d] FAILED to post request: %v\n", i+1, *count, err)
			continue
		}

		fmt.Printf("  [%d/%d] %s offering %s, looking for %s\n", i+1, *count, user.Email, skills[0], skills[1])
	}

	fmt.Println()
	fmt.Println("Done! Browse the marketplace at GET /api/swap-requests")
}
