package models

func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&Workspace{},
	}
}
