package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/studentdesk/SDPortal/config"
	"github.com/studentdesk/SDPortal/database"
	"github.com/studentdesk/SDPortal/routes"
)

func main() {
	// .env เป็น optional — production ตั้ง env ตรง ๆ
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process env")
	}

	cfg := config.Load()

	// เชื่อมต่อฐานข้อมูล (ถ้า DB ยังไม่ขึ้น โปรแกรมจะ error ทันที — เหมาะสำหรับ early fail)
	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.RegisterRoutes(e, cfg)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
