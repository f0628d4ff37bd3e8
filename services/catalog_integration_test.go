package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sahilchouksey/edupool/database/dbtest"
	"github.com/sahilchouksey/edupool/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type recordingImages struct {
	deleted []string
}

func (r *recordingImages) Delete(_ context.Context, name string) error {
	r.deleted = append(r.deleted, name)
	return nil
}

func createUniversity(t *testing.T, db *gorm.DB, name string, year int) *model.University {
	t.Helper()
	u, err := NewUniversityService(db, nil).Create(context.Background(), UniversityInput{Name: name, EstablishedYear: year})
	require.NoError(t, err)
	return u
}

func createCollege(t *testing.T, db *gorm.DB, name string, universityID uint) *model.College {
	t.Helper()
	c, err := NewCollegeService(db, nil).Create(context.Background(), CollegeInput{Name: name, UniversityID: universityID})
	require.NoError(t, err)
	return c
}

func createCourse(t *testing.T, db *gorm.DB, name string, universityID uint) *model.Course {
	t.Helper()
	c, err := NewCourseService(db).CreateWithUniversity(context.Background(), CourseInput{Name: name, Duration: "4 Years"}, universityID)
	require.NoError(t, err)
	return c
}

func TestUniversityCRUD(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	images := &recordingImages{}
	svc := NewUniversityService(db, images)

	u, err := svc.Create(ctx, UniversityInput{Name: "Test U", EstablishedYear: 2000, Image: "1_a.png"})
	require.NoError(t, err)
	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	updated, err := svc.Update(ctx, u.ID, UniversityInput{Name: "Test University", EstablishedYear: 2001, Image: "2_b.png"})
	require.NoError(t, err)
	assert.Equal(t, "Test University", updated.Name)
	assert.Equal(t, []string{"1_a.png"}, images.deleted)

	// an update without a new image keeps the current one
	_, err = svc.Update(ctx, u.ID, UniversityInput{Name: "Test University", EstablishedYear: 2001})
	require.NoError(t, err)
	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "2_b.png", got.Image)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.Equal(t, []string{"1_a.png", "2_b.png"}, images.deleted)

	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), ErrNotFound)
}

func TestDeleteUniversityDetachesColleges(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	u := createUniversity(t, db, "Tribhuvan University", 1959)
	college := createCollege(t, db, "Pulchowk Campus", u.ID)
	course := createCourse(t, db, "Computer Engineering", u.ID)

	require.NoError(t, NewUniversityService(db, nil).Delete(ctx, u.ID))

	got, err := NewCollegeService(db, nil).Get(ctx, college.ID)
	require.NoError(t, err)
	assert.Nil(t, got.UniversityID)

	// the course survives, its university link does not
	_, err = NewCourseService(db).Get(ctx, course.ID)
	require.NoError(t, err)
	var links int64
	require.NoError(t, db.Model(&model.UniversityCourse{}).Where("course_id = ?", course.ID).Count(&links).Error)
	assert.Zero(t, links)
}

func TestCollegeRequiresExistingUniversity(t *testing.T) {
	db := dbtest.Open(t)
	_, err := NewCollegeService(db, nil).Create(context.Background(), CollegeInput{Name: "Orphan", UniversityID: 999})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestCourseCreationIsAtomic(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	svc := NewCourseService(db)

	// the link insert fails on the foreign key, so the course insert is rolled back
	_, err := svc.CreateWithUniversity(ctx, CourseInput{Name: "Ghost Course"}, 4242)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidReference)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	u := createUniversity(t, db, "Kathmandu University", 1991)
	course, err := svc.CreateWithUniversity(ctx, CourseInput{Name: "BBA"}, u.ID)
	require.NoError(t, err)

	rows, err := svc.Offerings(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, course.ID, rows[0].ID)
	assert.Equal(t, "Kathmandu University", rows[0].UniversityName)
	require.NotNil(t, rows[0].UCID)
}

func TestCollegeCourseLink(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	svc := NewCollegeCourseService(db)

	u := createUniversity(t, db, "Tribhuvan University", 1959)
	college := createCollege(t, db, "Pulchowk Campus", u.ID)
	course := createCourse(t, db, "Computer Engineering", u.ID)

	link, err := svc.Link(ctx, college.ID, course.ID, model.ProgramLevelBachelor)
	require.NoError(t, err)

	_, err = svc.Link(ctx, college.ID, course.ID, model.ProgramLevelMaster)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Link(ctx, college.ID, course.ID, model.ProgramLevel("Doctorate"))
	assert.ErrorIs(t, err, ErrInvalidValue)

	// the check constraint rejects levels that bypass the service
	err = db.Exec("UPDATE college_courses SET program_level = 'Doctorate' WHERE id = ?", link.ID).Error
	assert.ErrorIs(t, translateError(err), ErrInvalidValue)

	rows, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pulchowk Campus", rows[0].CollegeName)
	assert.Equal(t, model.ProgramLevelBachelor, rows[0].ProgramLevel)

	_, err = svc.Link(ctx, college.ID, 999, model.ProgramLevelBachelor)
	assert.ErrorIs(t, err, ErrInvalidReference)

	require.NoError(t, svc.Unlink(ctx, link.ID))
	assert.ErrorIs(t, svc.Unlink(ctx, link.ID), ErrNotFound)
}

func TestCoursePagination(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	svc := NewCourseService(db)

	u := createUniversity(t, db, "Pokhara University", 1997)
	for i := 1; i <= 10; i++ {
		createCourse(t, db, fmt.Sprintf("Course %02d", i), u.ID)
	}

	page, err := svc.List(ctx, CourseFilter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Courses, 2)
	assert.Equal(t, int64(10), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, "Course 09", page.Courses[0].Name)
	assert.Equal(t, int64(1), page.Courses[0].UniversityCount)

	page, err = svc.List(ctx, CourseFilter{Page: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Courses)

	page, err = svc.List(ctx, CourseFilter{Page: 2049638230412172403})
	require.NoError(t, err)
	assert.Empty(t, page.Courses)

	// unknown sort keys fall back to name
	page, err = svc.List(ctx, CourseFilter{Sort: "id; DROP TABLE courses", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, "name", page.Sort.Key)
	assert.Len(t, page.Courses, CoursesPerPage)
}

func TestUniversityListFilters(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	svc := NewUniversityService(db, nil)

	tu := createUniversity(t, db, "Tribhuvan University", 1959)
	createUniversity(t, db, "Kathmandu University", 1991)
	createUniversity(t, db, "Pokhara University", 1997)
	createCollege(t, db, "Pulchowk Campus", tu.ID)

	page, err := svc.List(ctx, UniversityFilter{Search: "TRIBHUVAN", Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Universities, 1)
	assert.Equal(t, int64(1), page.Universities[0].CollegeCount)

	page, err = svc.List(ctx, UniversityFilter{Year: 1991, Page: 1})
	require.NoError(t, err)
	require.Len(t, page.Universities, 1)
	assert.Equal(t, "Kathmandu University", page.Universities[0].Name)

	page, err = svc.List(ctx, UniversityFilter{Sort: "established_year", Page: 1})
	require.NoError(t, err)
	assert.Equal(t, "Tribhuvan University", page.Universities[0].Name)

	// LIKE wildcards in the search term match literally
	page, err = svc.List(ctx, UniversityFilter{Search: "%", Page: 1})
	require.NoError(t, err)
	assert.Empty(t, page.Universities)

	years, err := svc.Years(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1997, 1991, 1959}, years)
}

func TestCollegeDetailGroupsByLevel(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	u := createUniversity(t, db, "Tribhuvan University", 1959)
	college := createCollege(t, db, "Pulchowk Campus", u.ID)
	be := createCourse(t, db, "Computer Engineering", u.ID)
	msc := createCourse(t, db, "MSc Computer Science", u.ID)

	links := NewCollegeCourseService(db)
	_, err := links.Link(ctx, college.ID, msc.ID, model.ProgramLevelMaster)
	require.NoError(t, err)
	_, err = links.Link(ctx, college.ID, be.ID, model.ProgramLevelBachelor)
	require.NoError(t, err)

	detail, err := NewCollegeService(db, nil).Detail(ctx, college.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tribhuvan University", detail.College.UniversityName)
	require.Len(t, detail.Levels, 2)
	assert.Equal(t, model.ProgramLevelBachelor, detail.Levels[0].Level)
	assert.Equal(t, model.ProgramLevelMaster, detail.Levels[1].Level)

	_, err = NewCollegeService(db, nil).Detail(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCourseDetail(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	u := createUniversity(t, db, "Tribhuvan University", 1959)
	college := createCollege(t, db, "Pulchowk Campus", u.ID)
	course := createCourse(t, db, "Computer Engineering", u.ID)
	_, err := NewCollegeCourseService(db).Link(ctx, college.ID, course.ID, model.ProgramLevelBachelor)
	require.NoError(t, err)

	var uc model.UniversityCourse
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&uc).Error)
	syllabus := NewSyllabusService(db)
	group, err := syllabus.AddGroup(ctx, uc.ID, "First Semester")
	require.NoError(t, err)
	_, err = syllabus.AddItem(ctx, uc.ID, group.ID, "Engineering Mathematics I", 3)
	require.NoError(t, err)

	detail, err := NewCourseService(db).Detail(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, detail.Universities, 1)
	require.Len(t, detail.Colleges, 1)
	assert.Equal(t, model.ProgramLevelBachelor, detail.Colleges[0].ProgramLevel)
	assert.Equal(t, "Tribhuvan University", detail.Colleges[0].UniversityName)
	require.Len(t, detail.Syllabi, 1)
	require.Len(t, detail.Syllabi[0].Groups, 1)
	assert.Equal(t, 3, detail.Syllabi[0].Groups[0].TotalCredit())
}

func TestSyllabusScoping(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	svc := NewSyllabusService(db)

	u := createUniversity(t, db, "Tribhuvan University", 1959)
	createCourse(t, db, "BBA", u.ID)
	createCourse(t, db, "BCA", u.ID)

	var ucs []model.UniversityCourse
	require.NoError(t, db.Order("id ASC").Find(&ucs).Error)
	require.Len(t, ucs, 2)

	info, err := svc.UniversityCourse(ctx, ucs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "BBA", info.CourseName)
	_, err = svc.UniversityCourse(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	group, err := svc.AddGroup(ctx, ucs[0].ID, "First Semester")
	require.NoError(t, err)

	// items are accepted only for groups of the same pairing
	_, err = svc.AddItem(ctx, ucs[1].ID, group.ID, "Accounting", 3)
	assert.ErrorIs(t, err, ErrInvalidReference)
	_, err = svc.AddItem(ctx, ucs[0].ID, group.ID, "Accounting", 0)
	assert.ErrorIs(t, err, ErrInvalidValue)

	item, err := svc.AddItem(ctx, ucs[0].ID, group.ID, "Accounting", 3)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, ucs[0].ID, group.ID, "Economics", 2)
	require.NoError(t, err)

	groups, err := svc.Groups(ctx, ucs[0].ID)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, 5, groups[0].TotalCredit())

	assert.ErrorIs(t, svc.DeleteItem(ctx, ucs[1].ID, item.ID), ErrNotFound)
	require.NoError(t, svc.DeleteItem(ctx, ucs[0].ID, item.ID))

	require.NoError(t, svc.DeleteGroup(ctx, ucs[0].ID, group.ID))
	var items int64
	require.NoError(t, db.Model(&model.SyllabusItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestHomeSearch(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	u := createUniversity(t, db, "Engineering University", 1990)
	createCollege(t, db, "Engineering Campus", u.ID)
	createCourse(t, db, "Civil Engineering", u.ID)
	_, err := NewCourseService(db).CreateWithUniversity(ctx,
		CourseInput{Name: "BSc CSIT", Syllabus: "Software ENGINEERING fundamentals"}, u.ID)
	require.NoError(t, err)
	createCourse(t, db, "BBA", u.ID)

	svc := NewHomeService(db, nil)
	results, err := svc.Search(ctx, "engineering", SearchCourses)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "course", r.Type)
		assert.True(t, strings.Contains(strings.ToLower(r.Name+r.Description), "engineering"))
	}

	results, err = svc.Search(ctx, "engineering", ParseSearchType("bogus"))
	require.NoError(t, err)
	assert.Len(t, results, 4)

	home := svc.Home(ctx)
	assert.Len(t, home.Universities, 1)
	assert.Len(t, home.Colleges, 1)
	assert.Len(t, home.Courses, 3)
	assert.Equal(t, CatalogStats{Universities: 1, Colleges: 1, Courses: 3}, home.Stats)

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Len(t, dashboard.Recent, 5)
}

func TestUserAccounts(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	images := &recordingImages{}
	svc := NewUserService(db, images)

	user, err := svc.Register(ctx, RegisterInput{Username: "ram_bahadur", Email: "Ram@Example.com", Password: "secret1", ProfilePicture: "1_p.png"})
	require.NoError(t, err)
	assert.Equal(t, "ram@example.com", user.Email)

	_, err = svc.Register(ctx, RegisterInput{Username: "other", Email: "ram@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := svc.Authenticate(ctx, "RAM@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	_, err = svc.Authenticate(ctx, "ram_bahadur", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.Delete(ctx, user.ID))
	assert.Equal(t, []string{"1_p.png"}, images.deleted)
	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExportWorkbook(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	u := createUniversity(t, db, "Pokhara University", 1997)
	college := createCollege(t, db, "Gandaki College", u.ID)
	course := createCourse(t, db, "BE Computer", u.ID)
	_, err := NewCollegeCourseService(db).Link(ctx, college.ID, course.ID, model.ProgramLevelBachelor)
	require.NoError(t, err)

	svc := NewExportService(NewUniversityService(db, nil), NewCollegeService(db, nil), NewCourseService(db), NewCollegeCourseService(db))
	var buf bytes.Buffer
	require.NoError(t, svc.WriteWorkbook(ctx, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Universities", "Colleges", "Courses", "College Courses"}, f.GetSheetList())

	rows, err := f.GetRows("Colleges")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ID", "Name", "University", "Location", "Website"}, rows[0])
	assert.Equal(t, "Gandaki College", rows[1][1])
	assert.Equal(t, "Pokhara University", rows[1][2])

	rows, err = f.GetRows("College Courses")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Gandaki College", "BE Computer", "Bachelor"}, rows[1])
}
