package notify

import "fmt"

// Titles
const (
	TitleLogin   = "Login"
	TitleProfile = "Profile"
	TitleIssue   = "Issue report"
	TitleMember  = "Member"
	TitleMessage = "Message"
	TitleSearch  = "Search"
	TitleError   = "Error"
)

// Messages
const (
	MsgLoginSuccess     = "Welcome back!"
	MsgLoginFailed      = "Invalid email or password"
	MsgLoginNoRecord    = "Login successful but no user record found"
	MsgLoginUnavailable = "Unable to sign in right now. Please try again."

	MsgProfileUpdated = "Profile updated successfully"
	MsgProfileError   = "Failed to update profile"
	MsgPhotoUploaded  = "Profile photo updated"
	MsgPhotoError     = "Failed to upload photo"
	MsgPhotoSaveError = "Photo uploaded but could not be saved to your profile"

	MsgIssueSubmitted      = "Your issue has been recorded"
	MsgIssueError          = "Failed to submit issue"
	MsgIssueImageError     = "Issue recorded but the image failed to upload"
	MsgIssueImageLinkError = "Image uploaded but could not be attached to the issue"

	MsgMemberSaved    = "Member details saved"
	MsgMemberError    = "Failed to save member details"
	MsgMemberNotFound = "Could not find record to update"
	MsgMemberMissing  = "Member not found"

	MsgSearchError  = "Failed to load members"
	MsgMessageError = "Failed to send message"
	MsgMessageEmpty = "Message cannot be empty"
	MsgNoRecipients = "Search for members before sending a message"

	MsgUnknown = "An unexpected error occurred"
)

// MessageSent is the confirmation for a simulated send.
func MessageSent(count int) string {
	return fmt.Sprintf("Message sent to %d members", count)
}
