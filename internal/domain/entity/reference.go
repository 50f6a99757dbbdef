package entity

// Medication is a read-only lookup entry used to populate selection lists.
type Medication struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
}

func (Medication) TableName() string {
	return "medications"
}

// Dosage is a read-only lookup entry such as "5mg".
type Dosage struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Value string `gorm:"type:varchar(50);uniqueIndex;not null" json:"value"`
}

func (Dosage) TableName() string {
	return "dosages"
}

// ReferenceKind selects one of the lookup lists.
type ReferenceKind string

const (
	ReferenceMedications ReferenceKind = "medications"
	ReferenceDosages     ReferenceKind = "dosages"
)
