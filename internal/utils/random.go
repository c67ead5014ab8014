package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var tiers = []domain.Tier{
	domain.TierJunior,
	domain.TierRegular,
	domain.TierSenior,
}

func GenerateRandomTier() domain.Tier {
	return tiers[rand.Intn(len(tiers))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomEmployee(password string, emailDomainName string) (*domain.Employee, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleEmployee,
		Tier:         GenerateRandomTier(),
	}

	return employee, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var presetNames = []string{"标准班 (9-5)", "早班", "晚班", "周末班", "半天班"}

var clockPairs = [][2]string{
	{"09:00", "17:00"},
	{"06:00", "14:00"},
	{"14:00", "22:00"},
	{"22:00", "06:00"},
	{"09:00", "13:00"},
}

func GenerateRandomPreset() *domain.AvailabilityPreset {
	pair := clockPairs[rand.Intn(len(clockPairs))]
	return &domain.AvailabilityPreset{
		Name: fmt.Sprintf("%s #%03d", presetNames[rand.Intn(len(presetNames))], rand.Intn(1000)),
		Slots: []domain.PresetSlot{
			{StartTime: pair[0], EndTime: pair[1]},
		},
	}
}

var departments = []struct {
	name      string
	color     string
	subGroups []string
	roles     []string
}{
	{"客服部", "#3b82f6", []string{"呼入组", "呼出组"}, []string{"接线员", "质检员"}},
	{"安保部", "#ef4444", []string{"日巡组", "夜巡组"}, []string{"巡逻员", "门岗"}},
	{"前台部", "#22c55e", []string{"接待组"}, []string{"接待员"}},
}

var breakDurations = []string{"00:00", "00:30", "01:00"}

// GenerateRandomRoster 生成某一天的随机班表（未发布状态）
func GenerateRandomRoster(date string) *domain.Roster {
	r := &domain.Roster{
		Date:   date,
		Groups: make([]domain.Group, 0),
	}

	for _, dept := range departments {
		group := domain.Group{
			Name:  dept.name,
			Color: dept.color,
		}

		for _, subGroupName := range dept.subGroups {
			subGroup := domain.SubGroup{
				Name: subGroupName,
			}

			shiftCount := rand.Intn(3) + 1
			for i := 0; i < shiftCount; i++ {
				pair := clockPairs[rand.Intn(len(clockPairs))]
				subGroup.Shifts = append(subGroup.Shifts, domain.Shift{
					Role:              dept.roles[rand.Intn(len(dept.roles))],
					StartTime:         pair[0],
					EndTime:           pair[1],
					BreakDuration:     breakDurations[rand.Intn(len(breakDurations))],
					RemunerationLevel: int32(rand.Intn(3) + 1),
				})
			}

			group.SubGroups = append(group.SubGroups, subGroup)
		}

		r.Groups = append(r.Groups, group)
	}

	return r
}

var bidNotes = []string{"", "希望排这个班", "时间合适", "可以顶班", ""}

func GenerateRandomBid(employeeID int64, shiftID int64) *domain.Bid {
	return &domain.Bid{
		EmployeeID: employeeID,
		ShiftID:    shiftID,
		Status:     domain.BidPending,
		Notes:      bidNotes[rand.Intn(len(bidNotes))],
	}
}

// GenerateRandomDateNearby 返回今天前后 days 天内的一个随机日期
func GenerateRandomDateNearby(days int) string {
	offset := rand.Intn(days*2+1) - days
	return time.Now().AddDate(0, 0, offset).Format(DateLayout)
}
