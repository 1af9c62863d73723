package chat

import (
	"fmt"
	"strings"
)

// Prompts and fixed replies of the line protocol
const (
	msgChoicePrompt           = "Type 'register' to create an account or 'login' to sign in:"
	msgRegisterUsernamePrompt = "Choose a username (4-12 characters):"
	msgRegisterPasswordPrompt = "Choose a password:"
	msgLoginUsernamePrompt    = "Username:"
	msgLoginPasswordPrompt    = "Password:"
	msgGoodbye                = "Goodbye!"
	msgUsersHeader            = "Online users:"

	usageRegister = "usage: /register <username> <password>"
	usageLogin    = "usage: /login <username> <password>"
	usageDM       = "usage: /dm <username> <message>"
)

// errorReply prefixes a rejection so clients can tell replies apart
// from chat traffic
func errorReply(text string) string {
	return "error: " + text
}

func welcomeRegistered(username string) string {
	return fmt.Sprintf("Registered as %s. Welcome!", username)
}

func welcomeBack(username string) string {
	return fmt.Sprintf("Login successful. Welcome back, %s!", username)
}

func registeredAnnouncement(username string) string {
	return fmt.Sprintf("* %s just registered", username)
}

func loginAnnouncement(username string) string {
	return fmt.Sprintf("* %s logged in", username)
}

func joinAnnouncement(username string) string {
	return fmt.Sprintf("* %s joined the chat", username)
}

func departureAnnouncement(username string) string {
	return fmt.Sprintf("* %s left the chat", username)
}

func chatMessage(sender, text string) string {
	return fmt.Sprintf("%s: %s", sender, text)
}

func dmToRecipient(sender, text string) string {
	return fmt.Sprintf("[dm from %s] %s", sender, text)
}

func dmConfirmation(recipient, text string) string {
	return fmt.Sprintf("[dm to %s] %s", recipient, text)
}

func userOfflineReply(username string) string {
	return errorReply(fmt.Sprintf("%s is not online", username))
}

func alreadyOnlineReply(username string) string {
	return errorReply(fmt.Sprintf("%s is already online", username))
}

func usersReply(usernames []string) string {
	return msgUsersHeader + "\n" + strings.Join(usernames, "\n")
}

// splitCommand splits a slash-command line on its first two spaces, so
// the final argument may itself contain spaces.
func splitCommand(line string) []string {
	return strings.SplitN(line, " ", 3)
}
