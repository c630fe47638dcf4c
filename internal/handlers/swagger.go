package handlers

// @title Prompt Relay API
// @version 1.0
// @description Relays text prompts to a configured generative AI provider and returns the generated result

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @tag.name generate
// @tag.description Prompt relay operations
