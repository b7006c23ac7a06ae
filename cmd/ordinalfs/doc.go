// Package main provides the ordinalfs service CLI.
//
//	ordinalfs serve           # start the HTTP server
//	ordinalfs migrate         # run migrations
//	ordinalfs migrate:rollback
//	ordinalfs migrate:status
//	ordinalfs seed            # seed data
//	ordinalfs route:list      # list API routes
//	ordinalfs queue:work      # run background job workers
//	ordinalfs schedule:run    # run the cron-style scheduler
package main
