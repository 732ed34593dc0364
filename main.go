package main

import (
	"flag"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"recipebook/crud"
	"recipebook/http"
	"recipebook/storage"
)

// main is the app's entry point.
func main() {
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	// Load configuration from a .config.json file if present, otherwise
	// use the default dev setup.
	config := LoadConfig(*productionBool)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.HMACKey, config.Pepper),
		crud.WithOAuth(),
		crud.WithPost(),
		crud.WithComment(),
		crud.WithLike(),
		crud.WithFollow(),
		crud.WithFeed(),
	)
	must(err)

	// Create an oauth config object for doing oauth with GitHub.
	githubOAuth := oauth2.Config{
		ClientID:     config.Github.ID,
		ClientSecret: config.Github.Secret,
		RedirectURL:  config.Github.RedirectURL,
		Endpoint:     github.Endpoint,
	}

	// Set up a webserver and serve the app.
	server := http.NewServer(config.IsProd(), config.CSRFKey, githubOAuth, services, storage.NewImageService())
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
