/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  container.go - Representació uniforme de les 1..8 particions NCCH
 *                 d'una imatge. Les imatges que no són contenidors
 *                 (NCCH, ExeFS o RomFS solts) s'embolcallen en un
 *                 contenidor sintètic d'una única partició.
 */

package citrus

import (
  "fmt"
  "sync"

  "github.com/adriagipas/ctrvfs/utils"
)


/*************/
/* PARTITION */
/*************/

// Partició d'un contenidor. En les particions sintètiques creades a
// partir d'un ExeFS o RomFS solt NCCH és nil i sols la regió
// corresponent està disponible.
type Partition struct {

  NCCH *NCCH

  mu          sync.Mutex
  exefs       *ExeFS
  romfs       *RomFS
  exefs_done  bool
  romfs_done  bool

}


func newPartitionNCCH( ncch *NCCH ) *Partition {
  return &Partition{
    NCCH: ncch,
  }
} // end newPartitionNCCH


// La partició descodifica l'ExeFS la primera vegada que es demana.
func (self *Partition) GetExeFS() (*ExeFS,error) {

  self.mu.Lock ()
  defer self.mu.Unlock ()
  if !self.exefs_done {
    if self.NCCH != nil {
      tmp,err:= self.NCCH.GetExeFS ()
      if err != nil { return nil,err }
      self.exefs= tmp
    }
    self.exefs_done= true
  }

  return self.exefs,nil

} // end GetExeFS


// Com GetExeFS però per al RomFS.
func (self *Partition) GetRomFS() (*RomFS,error) {

  self.mu.Lock ()
  defer self.mu.Unlock ()
  if !self.romfs_done {
    if self.NCCH != nil {
      tmp,err:= self.NCCH.GetRomFS ()
      if err != nil { return nil,err }
      self.romfs= tmp
    }
    self.romfs_done= true
  }

  return self.romfs,nil

} // end GetRomFS


/*************/
/* CONTAINER */
/*************/

type Container struct {

  // Particions presents. Les entrades poden ser nil.
  Partitions [8]*Partition

  // Cert per als contenidors de contingut descarregable, que
  // s'exposen per índex.
  IsDLC bool

  // No nil quan la imatge és un NCSD.
  NCSD *NCSDHeader

  // No nil quan la imatge és un CCI amb la capçalera estesa.
  CCI *CCIHeader

  // No nil quan la imatge és un CIA.
  CIAHeader *CIA

  acc utils.Accessor

}


// Torna la partició ind, o nil si no existeix. Els índexs fora de
// rang tornen nil, no un error.
func (self *Container) Partition( ind int ) *Partition {

  if ind < 0 || ind >= len(self.Partitions) {
    return nil
  }

  return self.Partitions[ind]

} // end Partition


// Torna un accessor amb la capçalera NCSD o nil si la imatge no és un
// NCSD.
func (self *Container) NCSDHeaderBytes() (utils.Accessor,error) {

  if self.NCSD == nil { return nil,nil }

  return self.NCSD.HeaderBytes ( self.acc )

} // end NCSDHeaderBytes


func newContainerNCSD( acc utils.Accessor ) (*Container,error) {

  // Llig capçalera. Intenta primer la capçalera estesa dels CCI.
  ret:= Container{
    acc: acc,
  }
  var cci CCIHeader
  if err:= cci.Read ( acc ); err == nil {
    ret.CCI= &cci
    ret.NCSD= &cci.NCSDHeader
  } else {
    var ncsd NCSDHeader
    if err:= ncsd.Read ( acc ); err != nil {
      return nil,err
    }
    ret.NCSD= &ncsd
  }

  // Crea particions.
  for i:= 0; i < 8; i++ {
    p:= &ret.NCSD.Partitions[i]
    if p.Type != NCSD_PARTITION_TYPE_NCCH { continue }
    sub,err:= utils.Slice ( acc, p.Offset, p.Size )
    if err != nil { return nil,err }
    ncch,err:= NewNCCH ( sub )
    if err != nil {
      return nil,fmt.Errorf ( "Error while reading NCSD partition %d: %w",
        i, err )
    }
    ret.Partitions[i]= newPartitionNCCH ( ncch )
  }

  return &ret,nil

} // end newContainerNCSD


func newContainerCIA( acc utils.Accessor ) (*Container,error) {

  cia,err:= NewCIA ( acc )
  if err != nil { return nil,err }

  ret:= Container{
    IsDLC: cia.IsDLC (),
    CIAHeader: cia,
    acc: acc,
  }

  // Cada contingut del TMD és un NCCH. L'índex del contingut
  // selecciona la partició.
  for i:= range cia.Contents {
    ind:= int(cia.Contents[i].Index)
    if ind >= len(ret.Partitions) {
      utils.Warning ( "ignoring CIA content %d: content index (%d) is"+
        " out of range", i, ind )
      continue
    }
    sub,err:= cia.OpenContent ( i )
    if err != nil { return nil,err }
    ncch,err:= NewNCCH ( sub )
    if err != nil {
      return nil,fmt.Errorf ( "Error while reading CIA content %d: %w",
        i, err )
    }
    ret.Partitions[ind]= newPartitionNCCH ( ncch )
  }

  return &ret,nil

} // end newContainerCIA


func newContainerNCCH( acc utils.Accessor ) (*Container,error) {

  ncch,err:= NewNCCH ( acc )
  if err != nil { return nil,err }

  ret:= Container{
    acc: acc,
  }
  ret.Partitions[0]= newPartitionNCCH ( ncch )

  return &ret,nil

} // end newContainerNCCH


func newContainerRomFS( acc utils.Accessor ) (*Container,error) {

  romfs,err:= NewRomFS ( acc )
  if err != nil { return nil,err }

  ret:= Container{
    acc: acc,
  }
  ret.Partitions[0]= &Partition{
    romfs: romfs,
    romfs_done: true,
    exefs_done: true,
  }

  return &ret,nil

} // end newContainerRomFS


func newContainerExeFS( acc utils.Accessor ) (*Container,error) {

  exefs,err:= NewExeFS ( acc )
  if err != nil { return nil,err }

  ret:= Container{
    acc: acc,
  }
  ret.Partitions[0]= &Partition{
    exefs: exefs,
    exefs_done: true,
    romfs_done: true,
  }

  return &ret,nil

} // end newContainerExeFS


// Retorna el contenidor associat a la imatge. Si cap decodificador la
// reconeix torna un error que embolcalla ErrUnsupportedFormat.
func NewContainer( acc utils.Accessor ) (*Container,error) {

  switch ftype:= Detect ( acc ); ftype {

  case TYPE_NCSD:
    return newContainerNCSD ( acc )

  case TYPE_CIA:
    return newContainerCIA ( acc )

  case TYPE_NCCH:
    return newContainerNCCH ( acc )

  case TYPE_ROMFS:
    return newContainerRomFS ( acc )

  case TYPE_EXEFS:
    return newContainerExeFS ( acc )

  default:
    return nil,fmt.Errorf ( "Unable to detect the image type: %w",
      utils.ErrUnsupportedFormat )

  }

} // end NewContainer
