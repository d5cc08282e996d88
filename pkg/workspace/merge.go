package workspace

// MergeUpdate layers the supplied fields of an update over a workspace
// snapshot and returns the merged workspace. Fields left nil in the update
// keep their snapshot values. The workspace ID always comes from the
// snapshot; it is immutable once assigned.
func MergeUpdate(current Workspace, update Update) Workspace {
	merged := current

	if update.Email != nil {
		merged.Email = *update.Email
	}
	if update.InitialSetupComplete != nil {
		merged.InitialSetupComplete = *update.InitialSetupComplete
	}
	if update.DisplaySetupWizard != nil {
		merged.DisplaySetupWizard = *update.DisplaySetupWizard
	}
	if update.AnonymousDataCollection != nil {
		merged.AnonymousDataCollection = *update.AnonymousDataCollection
	}
	if update.News != nil {
		merged.News = *update.News
	}
	if update.SecurityUpdates != nil {
		merged.SecurityUpdates = *update.SecurityUpdates
	}
	if update.Notifications != nil {
		merged.Notifications = update.Notifications
	}

	return merged
}
