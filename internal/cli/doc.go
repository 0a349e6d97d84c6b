// Package cli provides command-line interface setup and configuration
// for the tarjama application. It handles flag parsing, root command
// creation, and configuration management using cobra, viper and godotenv.
package cli
