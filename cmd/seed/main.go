package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/seed"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入随机可用时间模板, 3: 插入随机班表, 4: 插入随机竞班申请, 5: 插入完整演示数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				employee, err := utils.GenerateRandomEmployee(cfg.Seed.Employee.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机员工", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateEmployee(employee); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入员工成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的模板数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				preset := utils.GenerateRandomPreset()
				if err := repo.CreatePreset(preset); err != nil {
					slog.Error("无法插入可用时间模板", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入可用时间模板成功", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的班表数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				// 每张班表占一个日历日，从今天开始往后排
				date := time.Now().AddDate(0, 0, i).Format(utils.DateLayout)
				roster := utils.GenerateRandomRoster(date)
				if err := repo.CreateRoster(roster); err != nil {
					slog.Error("无法插入班表", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入班表成功", slog.Int("count", n-cnt))
		}
	case 4:
		if n <= 0 {
			slog.Error("请输入合法的竞班申请数量")
			return
		}

		// 获取所有员工和未来两周的班表，从中随机挑选空闲班次
		employees, err := repo.GetAllEmployees()
		if err != nil {
			slog.Error("无法获取员工列表", slog.String("error", err.Error()))
			return
		}
		if len(employees) == 0 {
			slog.Error("数据库中没有员工，请先执行 op=1")
			return
		}

		startDate := time.Now().Format(utils.DateLayout)
		endDate := time.Now().AddDate(0, 0, 14).Format(utils.DateLayout)
		rosters, err := repo.GetRostersByDateRange(startDate, endDate)
		if err != nil {
			slog.Error("无法获取班表列表", slog.String("error", err.Error()))
			return
		}

		openShiftIDs := make([]int64, 0)
		for _, roster := range rosters {
			for _, group := range roster.Groups {
				for _, subGroup := range group.SubGroups {
					for _, shift := range subGroup.Shifts {
						if shift.EmployeeID == nil {
							openShiftIDs = append(openShiftIDs, shift.ID)
						}
					}
				}
			}
		}
		if len(openShiftIDs) == 0 {
			slog.Error("没有空闲班次，请先执行 op=3")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			employee := employees[rand.Intn(len(employees))]
			shiftID := openShiftIDs[rand.Intn(len(openShiftIDs))]

			bid := utils.GenerateRandomBid(employee.ID, shiftID)
			if err := repo.CreateBid(bid); err != nil {
				slog.Error("无法插入竞班申请", slog.String("error", err.Error()))
				continue
			}

			cnt++
		}

		slog.Info("插入竞班申请成功", slog.Int("count", cnt))
	case 5:
		seed.SeedDemoData(repo, cfg.Seed.Employee.Password, cfg.Email.UserDomain)
	default:
		slog.Error("指定的操作非法")
	}
}
