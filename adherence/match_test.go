package adherence_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tidepool-org/adherence/adherence"
	"github.com/tidepool-org/adherence/intakes"
	"github.com/tidepool-org/adherence/therapies"
)

var _ = Describe("Matches", func() {
	var therapy therapies.Therapy

	BeforeEach(func() {
		id := primitive.NewObjectID()
		therapy = therapies.Therapy{
			Id:       &id,
			DrugName: "metformina",
			Dosage:   "500mg",
		}
	})

	It("ignores case and whitespace", func() {
		intake := intakes.Intake{DrugName: " Metformina ", Dosage: "500 MG"}
		Expect(adherence.Matches(intake, therapy)).To(BeTrue())
	})

	It("doesn't match a different dosage", func() {
		intake := intakes.Intake{DrugName: "Metformina", Dosage: "850 mg"}
		Expect(adherence.Matches(intake, therapy)).To(BeFalse())
	})

	It("doesn't match a different drug", func() {
		intake := intakes.Intake{DrugName: "Insulina", Dosage: "500mg"}
		Expect(adherence.Matches(intake, therapy)).To(BeFalse())
	})

	It("matches an intake linked to the therapy regardless of names", func() {
		intake := intakes.Intake{DrugName: "something else", Dosage: "1 tablet", TherapyId: therapy.Id}
		Expect(adherence.Matches(intake, therapy)).To(BeTrue())
	})

	It("doesn't match an intake linked to another therapy", func() {
		other := primitive.NewObjectID()
		intake := intakes.Intake{DrugName: "metformina", Dosage: "500mg", TherapyId: &other}
		Expect(adherence.Matches(intake, therapy)).To(BeFalse())
	})

	It("counts matching intakes", func() {
		list := []*intakes.Intake{
			{DrugName: "METFORMINA", Dosage: "500mg"},
			{DrugName: "metformina", Dosage: "500 mg"},
			{DrugName: "aspirina", Dosage: "100mg"},
			nil,
		}
		Expect(adherence.CountMatching(list, therapy)).To(Equal(2))
	})

	DescribeTable("Normalize",
		func(value, expected string) {
			Expect(adherence.Normalize(value)).To(Equal(expected))
		},
		Entry("trims", "  Metformina\t", "metformina"),
		Entry("drops internal whitespace", "1 compressa  da 500 MG", "1compressada500mg"),
		Entry("keeps empty values empty", "   ", ""),
	)
})
