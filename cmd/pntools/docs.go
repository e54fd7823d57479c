package main

// General API documentation for swaggo. Routes are described in
// internal/httpapi/docs.
//
// @title           pntools API
// @version         1.0
// @description     Introspection of broadcast channels and managed file groups.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
