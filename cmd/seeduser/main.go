// cmd/seeduser/main.go crea o actualiza el usuario administrador inicial.
// Uso: go run ./cmd/seeduser -username admin -password secreto
//      go run ./cmd/seeduser -hash-only -password secreto
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"tpv/internal/config"
	"tpv/internal/infra"
	"tpv/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	username := flag.String("username", "admin", "nombre de usuario")
	password := flag.String("password", "", "contraseña (obligatoria)")
	nombre := flag.String("nombre", "Administrador", "nombre visible")
	rol := flag.String("rol", model.RolAdministrador, "administrador | vendedor")
	hashOnly := flag.Bool("hash-only", false, "solo imprime el hash bcrypt")
	flag.Parse()

	if *password == "" {
		log.Fatal().Msg("-password es obligatorio")
	}
	if *rol != model.RolAdministrador && *rol != model.RolVendedor {
		log.Fatal().Str("rol", *rol).Msg("rol invalido")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}
	if *hashOnly {
		fmt.Println(string(hash))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	user := model.Usuario{
		Username:     *username,
		Nombre:       *nombre,
		PasswordHash: string(hash),
		Rol:          *rol,
		Activo:       true,
	}
	err = db.WithContext(context.Background()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "nombre", "rol", "activo"}),
	}).Create(&user).Error
	if err != nil {
		log.Fatal().Err(err).Msg("upsert error")
	}
	log.Info().Str("username", *username).Str("rol", *rol).Msg("usuario creado/actualizado")
}
