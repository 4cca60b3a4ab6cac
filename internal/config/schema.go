package config

// schemaSource declares every accepted key with its type and default.
// Definitions are closed, so unknown keys fail unification.
const schemaSource = `
#Composer: {
	file:                *"./composer.json" | string
	no_check_all:        *false | bool
	no_check_lock:       *false | bool
	no_check_publish:    *false | bool
	no_local_repository: *false | bool
	with_dependencies:   *false | bool
	strict:              *false | bool
}

#Config: {
	bin_dir:         *"./vendor/bin" | string
	process_timeout: *60 | (int & >=0)
	tasks: {
		composer: #Composer
	}
}
`
